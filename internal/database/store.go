// Package database provides relational storage for ratings and catalog listings.
package database

import (
	"context"
	"strings"

	"github.com/mmcdole/moviebuddy/internal/domain"
)

// Store defines the interface for database operations.
// Both SQLite and PostgreSQL implementations satisfy this interface.
// Inserts are insert-or-ignore: the first write per primary key wins.
type Store interface {
	Close() error

	// DatabaseType returns the name of the database backend ("SQLite" or "PostgreSQL").
	DatabaseType() string

	// InitSchema creates the tables if they do not exist
	InitSchema(ctx context.Context) error

	// Rating operations
	InsertRatings(ctx context.Context, ratings []domain.Rating) error
	GetAllRatings(ctx context.Context) ([]domain.Rating, error)
	GetRatedContentIDs(ctx context.Context) (domain.IDSet, error)
	DeleteAllRatings(ctx context.Context) error

	// Catalog operations
	InsertCatalogEntries(ctx context.Context, entries []domain.CatalogEntry) error
	GetCatalogEntries(ctx context.Context) ([]domain.CatalogEntry, error)
	GetCatalogCount(ctx context.Context) (int, error)
	GetExistingCatalogIDs(ctx context.Context) (domain.IDSet, error)
}

// Open selects a backend from the URL: postgres:// and postgresql:// use
// PostgreSQL, anything else is treated as an SQLite path (an optional
// sqlite:// prefix is stripped). The schema is created on open.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	databaseURL = strings.TrimSpace(databaseURL)
	if databaseURL == "" {
		return nil, domain.ErrStoreNotConfigured
	}

	var (
		store Store
		err   error
	)
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		store, err = NewPostgres(databaseURL)
	default:
		path := strings.TrimPrefix(databaseURL, "sqlite://")
		store, err = NewSQLite(path)
	}
	if err != nil {
		return nil, err
	}

	if err := store.InitSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
