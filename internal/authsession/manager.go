// Package authsession holds the bearer token for the current user and keeps
// it in a persisted cookie-shaped record.
package authsession

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	CookieName    = "auth_token"
	DefaultMaxAge = 7 * 24 * time.Hour
)

type Options struct {
	// Secure marks the stored cookie secure-only.
	Secure bool
	MaxAge time.Duration
	Now    func() time.Time
	Logger logrus.FieldLogger
}

// OptionsForEnv returns the defaults for an application environment: the
// cookie is secure everywhere except development.
func OptionsForEnv(appEnv string) Options {
	return Options{Secure: appEnv != "development", MaxAge: DefaultMaxAge}
}

// Manager is the single owner of the session token. Readers get copies; only
// SetToken and ClearToken change it.
type Manager struct {
	mu    sync.RWMutex
	token string
	store Store
	opts  Options
}

// NewManager loads any stored, unexpired token from store.
func NewManager(store Store, opts Options) (*Manager, error) {
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultMaxAge
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		logger := logrus.New()
		logger.SetLevel(logrus.PanicLevel)
		opts.Logger = logger
	}

	m := &Manager{store: store, opts: opts}

	c, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if c == nil || c.Name != CookieName || c.Value == "" {
		return m, nil
	}
	if !c.Expires.IsZero() && !c.Expires.After(opts.Now()) {
		opts.Logger.WithField("expired_at", c.Expires).Debug("discarding expired session")
		if err := store.Clear(); err != nil {
			return nil, fmt.Errorf("clear expired session: %w", err)
		}
		return m, nil
	}
	m.token = c.Value
	return m, nil
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

// Token returns the current token, or "" when anonymous.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// SetToken persists token and then makes it current. When persisting fails
// the session is left unchanged.
func (m *Manager) SetToken(token string) error {
	if token == "" {
		return errors.New("empty token")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Save(m.cookie(token)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	m.token = token
	m.opts.Logger.Debug("session token stored")
	return nil
}

// ClearToken drops the token. The in-memory state flips immediately even if
// removing the persisted record fails.
func (m *Manager) ClearToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = ""
	if err := m.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (m *Manager) cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  m.opts.Now().Add(m.opts.MaxAge),
		MaxAge:   int(m.opts.MaxAge.Seconds()),
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

var (
	defaultMu      sync.RWMutex
	defaultManager *Manager
)

// Init builds the process-wide manager from store. It must run before
// Default is used.
func Init(store Store, opts Options) (*Manager, error) {
	m, err := NewManager(store, opts)
	if err != nil {
		return nil, err
	}
	defaultMu.Lock()
	defaultManager = m
	defaultMu.Unlock()
	return m, nil
}

// Default returns the manager installed by Init. It panics if Init has not
// been called.
func Default() *Manager {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	if defaultManager == nil {
		panic("authsession: Default called before Init")
	}
	return defaultManager
}
