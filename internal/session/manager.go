package session

import (
	"sync"

	"github.com/google/uuid"
)

// Manager owns the live machines, keyed by the session id embedded in
// the JWT. Machines are created at login and dropped at logout or when
// a backup import forces a full reload.
type Manager struct {
	mu       sync.RWMutex
	deps     Deps
	machines map[string]*Machine
}

// NewManager creates an empty Manager whose machines share deps.
func NewManager(deps Deps) *Manager {
	return &Manager{
		deps:     deps,
		machines: make(map[string]*Machine),
	}
}

// Create registers a fresh logged-out machine and returns it.
func (mgr *Manager) Create() *Machine {
	m := NewMachine(uuid.New().String(), mgr.deps)

	mgr.mu.Lock()
	mgr.machines[m.ID()] = m
	mgr.mu.Unlock()

	return m
}

// Get returns the machine for a session id, or nil if it was dropped.
func (mgr *Manager) Get(id string) *Machine {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return mgr.machines[id]
}

// Remove logs the machine out and forgets it.
func (mgr *Manager) Remove(id string) {
	mgr.mu.Lock()
	m := mgr.machines[id]
	delete(mgr.machines, id)
	mgr.mu.Unlock()

	if m != nil {
		m.Logout()
	}
}

// Reset drops every live session. Used after a backup import replaces
// the underlying collections: stale in-memory state must not outlive
// the data it was built from.
func (mgr *Manager) Reset() {
	mgr.mu.Lock()
	machines := mgr.machines
	mgr.machines = make(map[string]*Machine)
	mgr.mu.Unlock()

	for _, m := range machines {
		m.Logout()
	}
}

// Count returns the number of live sessions.
func (mgr *Manager) Count() int {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return len(mgr.machines)
}
