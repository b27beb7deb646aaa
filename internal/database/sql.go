package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmcdole/moviebuddy/internal/domain"
)

// sqlStore holds the queries shared by both backends. Queries are written
// with ? placeholders and rebound for the driver.
type sqlStore struct {
	conn   *sql.DB
	rebind func(string) string
}

func questionMarks(q string) string { return q }

// dollarPlaceholders rewrites ? placeholders as $1, $2, ...
func dollarPlaceholders(q string) string {
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) Close() error {
	return s.conn.Close()
}

func (s *sqlStore) createTables(ctx context.Context, statements ...string) error {
	for _, stmt := range statements {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// --- Rating Methods ---

func (s *sqlStore) InsertRatings(ctx context.Context, ratings []domain.Rating) error {
	if len(ratings) == 0 {
		return nil
	}
	for _, r := range ratings {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rating %d: %w", r.ContentID, err)
		}
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.rebind(`
		INSERT INTO ratings (content_id, title, content_type, score, rated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (content_id) DO NOTHING`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range ratings {
		if _, err := stmt.ExecContext(ctx, r.ContentID, r.Title, string(r.Type), r.Score, r.RatedAt); err != nil {
			return fmt.Errorf("insert rating %d: %w", r.ContentID, err)
		}
	}
	return tx.Commit()
}

func (s *sqlStore) GetAllRatings(ctx context.Context) ([]domain.Rating, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT content_id, title, content_type, score, rated_at FROM ratings ORDER BY rated_at, content_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []domain.Rating
	for rows.Next() {
		var r domain.Rating
		var contentType string
		if err := rows.Scan(&r.ContentID, &r.Title, &contentType, &r.Score, &r.RatedAt); err != nil {
			return nil, err
		}
		r.Type = domain.ContentType(contentType)
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

func (s *sqlStore) GetRatedContentIDs(ctx context.Context) (domain.IDSet, error) {
	return s.idSet(ctx, "SELECT content_id FROM ratings")
}

func (s *sqlStore) DeleteAllRatings(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, "DELETE FROM ratings")
	return err
}

// --- Catalog Methods ---

func (s *sqlStore) InsertCatalogEntries(ctx context.Context, entries []domain.CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.rebind(`
		INSERT INTO catalog (id, title, year, content_type, genres, countries,
			imdb_rating, kinopoisk_rating, plot, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		genres, err := encodeList(e.Genres)
		if err != nil {
			return err
		}
		countries, err := encodeList(e.Countries)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.Title, e.Year, string(e.Type), genres, countries,
			nullFloat(e.IMDbRating), nullFloat(e.KinopoiskRating), e.Plot, e.CreatedAt); err != nil {
			return fmt.Errorf("insert catalog entry %d: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

func (s *sqlStore) GetCatalogEntries(ctx context.Context) ([]domain.CatalogEntry, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, title, year, content_type, genres, countries,
			imdb_rating, kinopoisk_rating, plot, created_at
		FROM catalog ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.CatalogEntry
	for rows.Next() {
		var e domain.CatalogEntry
		var contentType, genres, countries string
		var imdb, kinopoisk sql.NullFloat64
		if err := rows.Scan(&e.ID, &e.Title, &e.Year, &contentType, &genres, &countries,
			&imdb, &kinopoisk, &e.Plot, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Type = domain.ContentType(contentType)
		if e.Genres, err = decodeList(genres); err != nil {
			return nil, fmt.Errorf("catalog entry %d genres: %w", e.ID, err)
		}
		if e.Countries, err = decodeList(countries); err != nil {
			return nil, fmt.Errorf("catalog entry %d countries: %w", e.ID, err)
		}
		e.IMDbRating = floatPtr(imdb)
		e.KinopoiskRating = floatPtr(kinopoisk)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *sqlStore) GetCatalogCount(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog").Scan(&count)
	return count, err
}

func (s *sqlStore) GetExistingCatalogIDs(ctx context.Context) (domain.IDSet, error) {
	return s.idSet(ctx, "SELECT id FROM catalog")
}

// --- Helpers ---

func (s *sqlStore) idSet(ctx context.Context, query string) (domain.IDSet, error) {
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := domain.NewIDSet()
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids.Add(id)
	}
	return ids, rows.Err()
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(data), nil
}

func decodeList(data string) ([]string, error) {
	if data == "" {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, err
	}
	return values, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
