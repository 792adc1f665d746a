package panel

import (
	"errors"
	"strings"
	"sync"
)

// MsgBusy is shown when an action is attempted while another one on the
// same relation is still waiting for the backend.
const MsgBusy = "Please wait for the previous action to finish."

var ErrBusy = errors.New(MsgBusy)

// Guard allows one in-flight mutation per relation. Bindings that show the
// same relation should share a Guard.
type Guard struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{pending: make(map[string]struct{})}
}

// Acquire claims the relation identified by key. The returned func releases
// it and is safe to call more than once.
func (g *Guard) Acquire(key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.pending[key]; ok {
		return nil, ErrBusy
	}
	g.pending[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.pending, key)
			g.mu.Unlock()
		})
	}, nil
}

func (g *Guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.pending[key]
	return ok
}

func friendKey(username string) string { return "friend:" + username }

// Group names match case-insensitively on the backend.
func groupKey(groupRef string) string { return "group:" + strings.ToLower(groupRef) }

func memberKey(groupID, username string) string { return "member:" + groupID + ":" + username }
