package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "FILES_MANAGER"

// dotenvFile is a var so tests can point it elsewhere.
var dotenvFile = ".env"

// loadDotenv exports variables from path without overriding ones already set.
// A missing file is not an error.
func loadDotenv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// overlayFileAndEnv applies the config file at path (if any) and then the
// environment on top of cfg. FOLDER_PATH is honoured without the prefix.
func overlayFileAndEnv(cfg *Config, path string) error {
	v := viper.New()
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("folder_path", EnvPrefix+"_FOLDER_PATH", "FOLDER_PATH"); err != nil {
		return err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("http_addr", c.HTTPAddr)
	v.SetDefault("database_dsn", c.DatabaseDSN)
	v.SetDefault("session_ttl", c.SessionTTL)
	v.SetDefault("session_store", c.SessionStore)
	v.SetDefault("badger_dir", c.BadgerDir)
	v.SetDefault("blob_store", c.BlobStore)
	v.SetDefault("folder_path", c.FolderPath)
	v.SetDefault("s3_root_user", c.S3RootUser)
	v.SetDefault("s3_root_password", c.S3RootPassword)
	v.SetDefault("s3_bucket", c.S3Bucket)
	v.SetDefault("s3_region", c.S3Region)
	v.SetDefault("s3_base_endpoint", c.S3BaseEndpoint)
	v.SetDefault("s3_key_prefix", c.S3KeyPrefix)
	v.SetDefault("s3_use_path_style", c.S3UsePathStyle)
	v.SetDefault("log_backend", c.LogBackend)
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("log_format", c.LogFormat)
	v.SetDefault("page_size", c.PageSize)
	v.SetDefault("cors_origins", c.CORSOrigins)
	v.SetDefault("shutdown_timeout", c.ShutdownTimeout)
}
