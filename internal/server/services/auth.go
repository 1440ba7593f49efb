// Package services contains server-side business logic. This file implements
// AuthService, which exchanges credentials for opaque session tokens kept in
// a sessions.Store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/sessions"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues, resolves and revokes session tokens.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    sessions.Store
	tokenTTL    time.Duration
	logger      logging.Logger
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, store sessions.Store, ttl time.Duration, logger logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		sessions:    store,
		tokenTTL:    ttl,
		logger:      logger.With("module", "auth"),
	}
}

func sessionKey(token string) string { return common.SessionKeyPrefix + token }

// IssueToken checks email and password and returns a new token valid for the
// configured TTL. Earlier tokens of the same user stay valid.
func (s *AuthService) IssueToken(ctx context.Context, email, password string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return "", common.ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := s.sessions.Set(ctx, sessionKey(token), user.ID, s.tokenTTL); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	s.logger.Debug(ctx, "session issued", "user_id", user.ID)
	return token, nil
}

// ResolveToken returns the user id bound to token.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrUnauthenticated
	}
	userID, err := s.sessions.Get(ctx, sessionKey(token))
	if err != nil {
		if errors.Is(err, sessions.ErrKeyNotFound) {
			return "", common.ErrUnauthenticated
		}
		return "", fmt.Errorf("load session: %w", err)
	}
	return userID, nil
}

// RevokeToken ends the session. The token must currently resolve.
func (s *AuthService) RevokeToken(ctx context.Context, token string) error {
	userID, err := s.ResolveToken(ctx, token)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sessionKey(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.Debug(ctx, "session revoked", "user_id", userID)
	return nil
}
