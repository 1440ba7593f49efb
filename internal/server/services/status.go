package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/sessions"
)

// Status reports store liveness.
type Status struct {
	Sessions bool
	Database bool
}

// Stats holds global record counts.
type Stats struct {
	Users int64
	Files int64
}

// StatusService answers health and statistics queries.
type StatusService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    sessions.Store
}

func NewStatusService(db *sql.DB, m repomanager.RepositoryManager, store sessions.Store) *StatusService {
	return &StatusService{db: db, repomanager: m, sessions: store}
}

func (s *StatusService) Status(ctx context.Context) Status {
	return Status{
		Sessions: s.sessions.Ping(ctx) == nil,
		Database: s.db.PingContext(ctx) == nil,
	}
}

func (s *StatusService) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.repomanager.Users(s.db).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	files, err := s.repomanager.Files(s.db).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}
	return &Stats{Users: users, Files: files}, nil
}
