package account

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"bookcatalog/internal/apiclient"
	"bookcatalog/internal/authsession"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// journal records every side effect of a workflow in the order it happened.
type journal struct {
	mu     sync.Mutex
	events []string
}

func (j *journal) add(e string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, e)
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.events...)
}

type journalNotifier struct{ j *journal }

func (n journalNotifier) Success(title, message string) { n.j.add("success:" + title) }
func (n journalNotifier) Error(title, message string)   { n.j.add("error:" + message) }

type journalNavigator struct{ j *journal }

func (n journalNavigator) Navigate(path string) { n.j.add("navigate:" + path) }

// journalStore wraps a MemoryStore and records durable writes.
type journalStore struct {
	*authsession.MemoryStore
	j       *journal
	saveErr error
}

func (s *journalStore) Save(c *http.Cookie) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.j.add("persist:" + c.Value)
	return s.MemoryStore.Save(c)
}

func newFixture(t *testing.T, handler http.HandlerFunc) (*Service, *authsession.Manager, *journal, *journalStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	j := &journal{}
	store := &journalStore{MemoryStore: authsession.NewMemoryStore(), j: j}
	session, err := authsession.NewManager(store, authsession.Options{})
	require.NoError(t, err)

	notifier := journalNotifier{j}
	client := apiclient.New(srv.URL+"/api", apiclient.WithTokenSource(session), apiclient.WithNotifier(notifier))
	return NewClientService(client, session, notifier, journalNavigator{j}), session, j, store
}

func TestLogin_Success(t *testing.T) {
	svc, session, j, _ := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/login_check", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"token":"jwt-1"}`)
	})

	require.NoError(t, svc.Login(context.Background(), "admin@test.fr", "password"))

	assert.Equal(t, []string{"persist:jwt-1", "navigate:/", "success:Welcome back"}, j.list())
	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, "jwt-1", session.Token())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, session, j, _ := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"code":401,"message":"Invalid credentials."}`)
	})
	require.NoError(t, session.SetToken("previous"))
	before := len(j.list())

	err := svc.Login(context.Background(), "admin@test.fr", "wrong")

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, []string{"error:Invalid credentials"}, j.list()[before:])
	assert.Equal(t, "previous", session.Token())
}

func TestLogin_PersistFailureStopsWorkflow(t *testing.T) {
	svc, session, j, store := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"token":"jwt-1"}`)
	})
	store.saveErr = errors.New("disk full")

	require.Error(t, svc.Login(context.Background(), "admin@test.fr", "password"))

	assert.NotContains(t, j.list(), "navigate:/")
	assert.False(t, session.IsAuthenticated())
}

func TestRegister(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc, session, j, _ := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/registration", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]string{"email": "new@test.fr", "password": "secret123"}, body)

			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":12,"email":"new@test.fr"}`)
		})

		user, err := svc.Register(context.Background(), "new@test.fr", "secret123")
		require.NoError(t, err)
		assert.Equal(t, apiclient.IntID(12), user.ID)
		assert.Equal(t, []string{"success:Account created"}, j.list())
		assert.False(t, session.IsAuthenticated())
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _, j, _ := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"description":"Email already exists."}`)
		})

		_, err := svc.Register(context.Background(), "admin@test.fr", "secret123")

		var conflict *apiclient.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, []string{"error:Email already exists."}, j.list())
	})
}

func TestLogout(t *testing.T) {
	svc, session, _, _ := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	require.NoError(t, session.SetToken("jwt"))

	require.NoError(t, svc.Logout())
	assert.False(t, session.IsAuthenticated())
}
