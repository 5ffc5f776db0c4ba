// Package session holds the operator's authentication state: the bearer
// token and user identity returned by the robot-manager login, persisted to
// disk so it survives console restarts and cleared together on logout.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotProvisioned is returned by Current when no store has been installed.
// Session access outside a provisioned scope is a programming error and must
// fail loudly, never silently return defaults.
var ErrNotProvisioned = errors.New("session store accessed before Provision")

const sessionFilename = "session.json"

type state struct {
	Token    string `json:"token"`
	UserName string `json:"user_name"`
	UserID   int    `json:"user_id"`
}

// Store is the single source of truth for authentication state. Exactly one
// session is active at a time; an empty token means unauthenticated.
type Store struct {
	mu   sync.RWMutex
	path string
	s    state
}

// Open creates a store backed by <dir>/session.json, rehydrating any state
// persisted by an earlier run. A missing or unreadable file just means no
// session.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	store := &Store{path: filepath.Join(dir, sessionFilename)}

	data, err := os.ReadFile(store.path)
	if err != nil {
		return store, nil
	}
	// A corrupt session file is discarded, not fatal
	_ = json.Unmarshal(data, &store.s)
	return store, nil
}

// Login records a fresh session and persists it. In-memory state and the
// persisted copy change together; the caller observes the update atomically.
func (st *Store) Login(token, userName string, userID int) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.s = state{Token: token, UserName: userName, UserID: userID}
	return st.persist()
}

// Logout clears in-memory and persisted state
func (st *Store) Logout() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.s = state{}
	if err := os.Remove(st.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Token returns the bearer token, or "" when unauthenticated
func (st *Store) Token() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.Token
}

// UserName returns the logged-in operator's display name
func (st *Store) UserName() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.UserName
}

// UserID returns the logged-in operator's id, or 0 when unauthenticated
func (st *Store) UserID() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.UserID
}

// IsAuthenticated reports whether a token is present
func (st *Store) IsAuthenticated() bool {
	return st.Token() != ""
}

func (st *Store) persist() error {
	data, err := json.MarshalIndent(st.s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(st.path, data, 0600)
}

var (
	provisionMu sync.RWMutex
	current     *Store
)

// Provision installs the process-wide store. Called once at startup, before
// any view runs.
func Provision(store *Store) {
	provisionMu.Lock()
	defer provisionMu.Unlock()
	current = store
}

// Current returns the provisioned store, or ErrNotProvisioned when no store
// has been installed yet.
func Current() (*Store, error) {
	provisionMu.RLock()
	defer provisionMu.RUnlock()
	if current == nil {
		return nil, ErrNotProvisioned
	}
	return current, nil
}
