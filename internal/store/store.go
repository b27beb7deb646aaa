package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/moviebuddy/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var bucketItems = []byte("items")

// cachedItem stamps a detail payload with the time it was stored
type cachedItem struct {
	CachedAt time.Time       `json:"cached_at"`
	Item     *domain.Content `json:"item"`
}

// ItemStore implements domain.ItemCache using BoltDB.
// Entries older than the TTL read as misses.
type ItemStore struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time

	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

var _ domain.ItemCache = (*ItemStore)(nil)

// NewItemStore opens the cache for one API endpoint under baseCacheDir.
// An empty baseCacheDir keeps the cache in memory only.
func NewItemStore(baseCacheDir, apiBaseURL string, ttl time.Duration) (*ItemStore, error) {
	s := &ItemStore{ttl: ttl, now: time.Now, cache: make(map[string][]byte)}
	if baseCacheDir == "" {
		return s, nil
	}

	dir := baseCacheDir
	if apiBaseURL != "" {
		dir = filepath.Join(baseCacheDir, hashBaseURL(apiBaseURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(filepath.Join(dir, "items.db"), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketItems)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

func hashBaseURL(baseURL string) string {
	normalized := strings.TrimRight(strings.ToLower(baseURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// SetClock overrides the time source used for TTL checks
func (s *ItemStore) SetClock(now func() time.Time) {
	s.now = now
}

func (s *ItemStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetItem returns a cached detail payload that has not expired
func (s *ItemStore) GetItem(id int) (*domain.Content, bool) {
	key := strconv.Itoa(id)
	data, ok := s.load(key)
	if !ok {
		return nil, false
	}

	var entry cachedItem
	if err := json.Unmarshal(data, &entry); err != nil || entry.Item == nil {
		return nil, false
	}
	if s.ttl > 0 && s.now().Sub(entry.CachedAt) > s.ttl {
		s.InvalidateItem(id)
		return nil, false
	}
	return entry.Item, true
}

// SaveItem stores a detail payload stamped with the current time
func (s *ItemStore) SaveItem(item *domain.Content) error {
	if item == nil {
		return nil
	}
	data, err := json.Marshal(cachedItem{CachedAt: s.now(), Item: item})
	if err != nil {
		return err
	}

	key := strconv.Itoa(item.ID)
	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketItems).Put([]byte(key), data)
	})
}

// InvalidateItem drops one cached item
func (s *ItemStore) InvalidateItem(id int) {
	key := strconv.Itoa(id)
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	s.db.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucketItems); b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// InvalidateAll drops every cached item
func (s *ItemStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketItems)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ItemStore) load(key string) ([]byte, bool) {
	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return data, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketItems)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return nil, false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()
	return data, true
}

// ClearCache removes the on-disk cache directory
func ClearCache(baseCacheDir string) error {
	if baseCacheDir == "" {
		return nil
	}
	if err := os.RemoveAll(baseCacheDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
