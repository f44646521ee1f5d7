package client

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/clinicore/clinic-scheduler/internal/domain"
)

// authFailureFragments are the message payloads that classify a failed call
// as an authentication failure, matched case-insensitively.
var authFailureFragments = []string{
	"not authorized",
	"invalid token",
	"token expired",
}

// IsAuthFailure classifies a failed API result: an unauthorized HTTP status,
// or a message matching one of the known fragments, counts as an
// authentication failure. Everything else passes through to normal error
// display.
func IsAuthFailure(status int, message string) bool {
	if status == http.StatusUnauthorized {
		return true
	}
	lowered := strings.ToLower(message)
	for _, fragment := range authFailureFragments {
		if strings.Contains(lowered, fragment) {
			return true
		}
	}
	return false
}

// RecoveryCoordinator intercepts failed API results. On an authentication
// failure it clears the session store entry for the role, emits exactly one
// user-facing notice and, after a short delay, publishes a
// session-invalidated event that subscribers react to (the replacement for
// a full page reload). Concurrent failures inside one recovery window are
// no-ops: the debounce is the only cross-call coordination.
type RecoveryCoordinator struct {
	store      *SessionStore
	logger     *zap.Logger
	resetDelay time.Duration

	mu          sync.Mutex
	inRecovery  bool
	notices     []func(role domain.Role, message string)
	invalidated []func(role domain.Role)
}

// NewRecoveryCoordinator builds a coordinator over the session store.
func NewRecoveryCoordinator(store *SessionStore, resetDelay time.Duration, logger *zap.Logger) *RecoveryCoordinator {
	if resetDelay <= 0 {
		resetDelay = 1500 * time.Millisecond
	}
	return &RecoveryCoordinator{store: store, resetDelay: resetDelay, logger: logger}
}

// OnNotice registers a user-facing notice sink.
func (rc *RecoveryCoordinator) OnNotice(fn func(role domain.Role, message string)) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.notices = append(rc.notices, fn)
}

// OnSessionInvalidated registers a subscriber for the session-invalidated
// event fired at the end of the recovery window.
func (rc *RecoveryCoordinator) OnSessionInvalidated(fn func(role domain.Role)) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.invalidated = append(rc.invalidated, fn)
}

// HandleFailure inspects a failed API result. It returns true when the
// failure was classified as an authentication failure and absorbed by the
// recovery flow; the caller must then treat the operation as not completed
// and must not surface the raw error. It never retries the original request.
func (rc *RecoveryCoordinator) HandleFailure(role domain.Role, status int, message string) bool {
	if !IsAuthFailure(status, message) {
		return false
	}

	rc.mu.Lock()
	if rc.inRecovery {
		// a reset is already scheduled; this concurrent failure is a no-op
		rc.mu.Unlock()
		return true
	}
	rc.inRecovery = true
	notices := append([]func(domain.Role, string){}, rc.notices...)
	rc.mu.Unlock()

	if err := rc.store.Clear(role); err != nil {
		rc.logger.Warn("failed to clear session", zap.Error(err))
	}
	for _, notice := range notices {
		notice(role, "Session expired. Please login again.")
	}

	time.AfterFunc(rc.resetDelay, func() {
		rc.mu.Lock()
		subscribers := append([]func(domain.Role){}, rc.invalidated...)
		rc.inRecovery = false
		rc.mu.Unlock()
		for _, subscriber := range subscribers {
			subscriber(role)
		}
	})
	return true
}
