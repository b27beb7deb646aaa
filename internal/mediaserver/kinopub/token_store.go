package kinopub

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/mmcdole/moviebuddy/internal/domain"
)

const keySalt = "movie_buddy_salt"

// TokenStore abstracts persistence for the OAuth token pair.
type TokenStore interface {
	// Load returns nil when no usable token is stored.
	Load() (*domain.Token, error)
	Save(domain.Token) error
	Clear() error
}

// tokenState is the on-disk JSON shape before sealing.
type tokenState struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// FileTokenStore seals the token with AES-GCM under a key derived from the
// host and user, so the file is useless when copied elsewhere.
type FileTokenStore struct {
	path   string
	key    [32]byte
	logger *slog.Logger
}

// TokenStoreOption customises a FileTokenStore.
type TokenStoreOption func(*FileTokenStore)

// WithKeyMaterial replaces the host-derived key material.
func WithKeyMaterial(material string) TokenStoreOption {
	return func(s *FileTokenStore) {
		s.key = sha256.Sum256([]byte(material))
	}
}

// WithStoreLogger sets the logger used to report unreadable token files.
func WithStoreLogger(logger *slog.Logger) TokenStoreOption {
	return func(s *FileTokenStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFileTokenStore builds a FileTokenStore rooted at the provided path.
func NewFileTokenStore(path string, opts ...TokenStoreOption) *FileTokenStore {
	s := &FileTokenStore{
		path:   path,
		key:    sha256.Sum256([]byte(machineKeyMaterial())),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the token file location.
func (s *FileTokenStore) Path() string {
	return s.path
}

func machineKeyMaterial() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	name := os.Getenv("USER")
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	return host + ":" + name + ":" + keySalt
}

// Load reads and opens the token file. A missing, truncated, foreign or
// otherwise undecodable file resolves to no token.
func (s *FileTokenStore) Load() (*domain.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read token file: %w", err)
	}

	plain, err := s.open(data)
	if err != nil {
		s.logger.Warn("ignoring unreadable token file", "path", s.path, "error", err)
		return nil, nil
	}

	var state tokenState
	if err := json.Unmarshal(plain, &state); err != nil {
		s.logger.Warn("ignoring malformed token file", "path", s.path, "error", err)
		return nil, nil
	}
	if state.AccessToken == "" {
		return nil, nil
	}

	return &domain.Token{
		AccessToken:  state.AccessToken,
		RefreshToken: state.RefreshToken,
		ExpiresAt:    time.Unix(state.ExpiresAt, 0),
	}, nil
}

// Save seals and writes the token atomically with restricted permissions.
// Concurrent writers are serialised through an advisory lock file.
func (s *FileTokenStore) Save(tok domain.Token) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("ensure token directory: %w", err)
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock token file: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	plain, err := json.Marshal(tokenState{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.ExpiresAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	sealed, err := s.seal(plain)
	if err != nil {
		return fmt.Errorf("encrypt token: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".token-*")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp token file: %w", err)
	}
	if _, err := tmp.Write(sealed); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp token file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}

// Clear removes the token file. A missing file is not an error.
func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	_ = os.Remove(s.path + ".lock")
	return nil
}

func (s *FileTokenStore) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// seal returns nonce || ciphertext.
func (s *FileTokenStore) seal(plain []byte) ([]byte, error) {
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func (s *FileTokenStore) open(data []byte) ([]byte, error) {
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}
	if len(data) < gcm.NonceSize() {
		return nil, errors.New("token file too short")
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
