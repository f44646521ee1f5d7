package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clinicore/clinic-scheduler/internal/domain"
)

// fakeAPI mimics the server envelope contract: a bearer token equal to
// goodToken is accepted, anything else gets the expired-session refusal.
type fakeAPI struct {
	goodToken string
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/doctor/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "token": f.goodToken})
	})
	mux.HandleFunc("/api/doctor/appointments", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.goodToken {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "token expired, login again"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"appointments": []map[string]any{
				{"id": "A1", "docId": "doc1", "status": "booked"},
			},
		})
	})
	return mux
}

func newClientFixture(t *testing.T, api *fakeAPI) (*Client, *SessionStore, *RecoveryCoordinator) {
	t.Helper()
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	store, err := NewSessionStore(filepath.Join(t.TempDir(), "sessions.json"))
	require.NoError(t, err)
	recovery := NewRecoveryCoordinator(store, 250*time.Millisecond, zap.NewNop())
	return NewClient(server.URL, domain.RoleDoctor, store, recovery), store, recovery
}

func TestLoginStoresTokenWriteThrough(t *testing.T) {
	api := &fakeAPI{goodToken: "tok-1"}
	c, store, _ := newClientFixture(t, api)

	require.NoError(t, c.Login(context.Background(), "doc@clinic.test", "secret"))
	token, ok := store.Get(domain.RoleDoctor)
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)

	appts, err := c.ListAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, "A1", appts[0].ID)
}

func TestBadCredentialsSurfaceWithoutRecovery(t *testing.T) {
	api := &fakeAPI{goodToken: "tok-1"}
	c, store, _ := newClientFixture(t, api)

	err := c.Login(context.Background(), "doc@clinic.test", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	// no session existed, so recovery clears nothing
	_, ok := store.Get(domain.RoleDoctor)
	assert.False(t, ok)
}

func TestExpiredSessionIsRecoveredOnce(t *testing.T) {
	api := &fakeAPI{goodToken: "tok-1"}
	c, store, recovery := newClientFixture(t, api)

	var notices atomic.Int64
	recovery.OnNotice(func(domain.Role, string) { notices.Add(1) })

	require.NoError(t, store.Set(domain.RoleDoctor, "stale-token"))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.ListAppointments(context.Background())
			var apiErr *APIError
			if assert.ErrorAs(t, err, &apiErr) {
				assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), notices.Load(), "overlapping failures yield one notice")
	_, ok := store.Get(domain.RoleDoctor)
	assert.False(t, ok, "stale session cleared")
}

func TestFreshLoginAfterRecoveryWorks(t *testing.T) {
	api := &fakeAPI{goodToken: "tok-2"}
	c, store, _ := newClientFixture(t, api)

	require.NoError(t, store.Set(domain.RoleDoctor, "stale-token"))
	_, err := c.ListAppointments(context.Background())
	require.Error(t, err)

	require.NoError(t, c.Login(context.Background(), "doc@clinic.test", "secret"))
	token, ok := store.Get(domain.RoleDoctor)
	require.True(t, ok)
	assert.Equal(t, "tok-2", token)

	_, err = c.ListAppointments(context.Background())
	assert.NoError(t, err)
}
