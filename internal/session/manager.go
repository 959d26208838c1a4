// Package session owns the client auth state machine: a persisted
// session is revalidated once at startup against the remote authority,
// and every later transition (authenticate, sign out, delete account)
// goes through the Manager.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fakestore/storefront/internal/apperr"
	"github.com/fakestore/storefront/internal/models"
	"github.com/fakestore/storefront/pkg/authclient"
)

type State int

const (
	Unauthenticated State = iota
	PendingValidation
	Authenticated
	// ValidationFailed is reported once after a failed startup
	// revalidation; for every permission check it is equivalent to
	// Unauthenticated.
	ValidationFailed
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case PendingValidation:
		return "pending_validation"
	case Authenticated:
		return "authenticated"
	case ValidationFailed:
		return "validation_failed"
	}
	return "unknown"
}

const expiredMessage = "Your session has expired! Please sign in again."

const signoutTimeout = 5 * time.Second

type Manager struct {
	mu        sync.Mutex
	state     State
	session   *models.Session
	validated bool
	notify    sync.WaitGroup

	store *Store
	auth  *authclient.Client
	log   *slog.Logger
}

// NewManager loads any persisted session. A stored session starts the
// manager in PendingValidation; an unreadable record is discarded and
// the manager starts clean.
func NewManager(store *Store, auth *authclient.Client, log *slog.Logger) *Manager {
	m := &Manager{store: store, auth: auth, log: log}
	sess, err := store.Load()
	if err != nil {
		log.Warn("discarding unreadable session record", "error", err)
		if err := store.Clear(); err != nil {
			log.Warn("could not clear session record", "error", err)
		}
		return m
	}
	if sess != nil {
		m.session = sess
		m.state = PendingValidation
	}
	return m
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) Authenticated() bool {
	return m.State() == Authenticated
}

// Session returns a copy of the current session, or nil.
func (m *Manager) Session() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	sess := *m.session
	return &sess
}

// Validate performs the one-shot startup revalidation. It runs at most
// once per manager lifetime and only from PendingValidation; any later
// call is a no-op. On a negative answer or any request failure the
// session is discarded locally and the returned error carries the
// user-visible message.
func (m *Manager) Validate(ctx context.Context) error {
	m.mu.Lock()
	if m.validated || m.state != PendingValidation {
		m.mu.Unlock()
		return nil
	}
	m.validated = true
	token := m.session.Token
	m.mu.Unlock()

	valid := false
	if tokenExpired(token) {
		m.log.Info("stored session already expired, skipping remote check")
	} else {
		var err error
		valid, err = m.auth.Verify(ctx, token)
		if err != nil {
			m.log.Warn("session validation request failed", "error", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if valid {
		m.state = Authenticated
		return nil
	}
	if err := m.store.Clear(); err != nil {
		m.log.Warn("could not clear session record", "error", err)
	}
	m.session = nil
	m.state = ValidationFailed
	return apperr.New(apperr.Server, expiredMessage)
}

// tokenExpired inspects the exp claim without verifying the signature;
// only the authority can truly validate the token. Opaque (non-JWT)
// tokens are left to the remote check.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// Authenticate installs a fresh session. A persistence failure is
// returned as a warning; the in-memory authenticated state stands
// regardless.
func (m *Manager) Authenticate(sess models.Session) error {
	m.mu.Lock()
	m.session = &sess
	m.state = Authenticated
	m.mu.Unlock()

	if err := m.store.Save(sess); err != nil {
		m.log.Warn("could not persist session", "error", err)
		return err
	}
	return nil
}

// SignOut tears the session down locally and notifies the authority in
// the background without waiting for or acting on its answer. Safe to
// call repeatedly.
func (m *Manager) SignOut() {
	m.mu.Lock()
	token := ""
	if m.session != nil {
		token = m.session.Token
	}
	m.session = nil
	m.state = Unauthenticated
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.log.Warn("could not clear session record", "error", err)
	}

	if token == "" {
		return
	}
	m.notify.Add(1)
	go func() {
		defer m.notify.Done()
		ctx, cancel := context.WithTimeout(context.Background(), signoutTimeout)
		defer cancel()
		if err := m.auth.Signout(ctx, token); err != nil {
			m.log.Debug("sign-out notification failed", "error", err)
		}
	}()
}

// Wait blocks until any in-flight sign-out notifications have finished.
// Each notification gives up after signoutTimeout, so Wait is bounded.
func (m *Manager) Wait() {
	m.notify.Wait()
}

// DeleteAccount asks the authority to delete the current user. On
// success the session is torn down locally, skipping the redundant
// remote sign-out. On failure the session is left untouched and the
// caller may retry.
func (m *Manager) DeleteAccount(ctx context.Context) error {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return apperr.New(apperr.Validation, "You are not signed in!")
	}
	objectID, token := m.session.User.ID, m.session.Token
	m.mu.Unlock()

	if err := m.auth.DeleteUser(ctx, objectID, token); err != nil {
		return err
	}

	m.mu.Lock()
	m.session = nil
	m.state = Unauthenticated
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.log.Warn("could not clear session record", "error", err)
	}
	return nil
}
