package authsession

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Store persists the session cookie between process runs.
type Store interface {
	// Load returns the stored cookie, or nil when nothing is stored.
	Load() (*http.Cookie, error)
	Save(c *http.Cookie) error
	Clear() error
}

// MemoryStore keeps the cookie for the lifetime of the process.
type MemoryStore struct {
	mu     sync.Mutex
	cookie *http.Cookie
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (*http.Cookie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cookie == nil {
		return nil, nil
	}
	c := *s.cookie
	return &c, nil
}

func (s *MemoryStore) Save(c *http.Cookie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := *c
	s.cookie = &saved
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookie = nil
	return nil
}

// FileStore keeps the cookie as a JSON document readable only by the owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type cookieRecord struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires"`
	MaxAge   int       `json:"maxAge"`
	Secure   bool      `json:"secure"`
	SameSite string    `json:"sameSite"`
}

func (s *FileStore) Load() (*http.Cookie, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var rec cookieRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return &http.Cookie{
		Name:     rec.Name,
		Value:    rec.Value,
		Path:     rec.Path,
		Expires:  rec.Expires,
		MaxAge:   rec.MaxAge,
		Secure:   rec.Secure,
		SameSite: parseSameSite(rec.SameSite),
	}, nil
}

// Save writes the cookie to a temporary file and renames it into place.
func (s *FileStore) Save(c *http.Cookie) error {
	rec := cookieRecord{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Expires:  c.Expires.UTC(),
		MaxAge:   c.MaxAge,
		Secure:   c.Secure,
		SameSite: formatSameSite(c.SameSite),
	}
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func formatSameSite(s http.SameSite) string {
	switch s {
	case http.SameSiteStrictMode:
		return "Strict"
	case http.SameSiteLaxMode:
		return "Lax"
	case http.SameSiteNoneMode:
		return "None"
	default:
		return ""
	}
}

func parseSameSite(s string) http.SameSite {
	switch s {
	case "Strict":
		return http.SameSiteStrictMode
	case "Lax":
		return http.SameSiteLaxMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}
