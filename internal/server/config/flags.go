package config

import (
	"flag"

	"github.com/dmitrijs2005/filesmanager/internal/flagx"
)

// parseFlags overrides Config fields from command-line flags:
//
//	-a string     HTTP bind address (e.g. ":5000")
//	-d string     PostgreSQL DSN
//	-f string     blob folder for the filesystem store
//	-t duration   session token lifetime (e.g. "24h")
//	-s string     session store: memory or badger
//	-b string     blob store: filesystem, memory or s3
//	-l string     log level
//
// Unknown arguments are ignored so -c/-config can share the command line.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.FolderPath, "f", config.FolderPath, "folder for stored files")
	fs.DurationVar(&config.SessionTTL, "t", config.SessionTTL, "session token lifetime")
	fs.StringVar(&config.SessionStore, "s", config.SessionStore, "session store type")
	fs.StringVar(&config.BlobStore, "b", config.BlobStore, "blob store type")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	return flagx.ParseKnown(fs, args)
}
