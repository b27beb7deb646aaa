package service

import (
	"log/slog"

	"github.com/mmcdole/moviebuddy/internal/store"
)

// tokenClearer forgets stored credentials (consumer-defined interface)
type tokenClearer interface {
	Logout() error
}

// SessionService manages user session operations
type SessionService struct {
	auth     tokenClearer
	cacheDir string
	logger   *slog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(auth tokenClearer, cacheDir string, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{auth: auth, cacheDir: cacheDir, logger: logger}
}

// Logout clears the stored token and cached data
func (s *SessionService) Logout() error {
	// Clear credentials
	if err := s.auth.Logout(); err != nil {
		return err
	}

	// Clear cache
	if err := store.ClearCache(s.cacheDir); err != nil {
		return err
	}

	s.logger.Info("logged out", "cacheDir", s.cacheDir)
	return nil
}
