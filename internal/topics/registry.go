package topics

import "github.com/No1se-pi/moder-bot/internal/store"

// GeneralThreadID is the distinguished default topic of a forum chat.
// It is always part of a sweep, whether or not anything is registered.
const GeneralThreadID = 0

// Registry answers which topic ids a sweep must act on for a chat.
// Only manually registered ids count; discovered names never drive actions.
type Registry struct {
	store *store.Store
}

func NewRegistry(st *store.Store) *Registry {
	return &Registry{store: st}
}

// ActionIDs returns the general topic followed by every registered topic id.
func (r *Registry) ActionIDs(chatID int64) ([]int, error) {
	ids, err := r.store.RegisteredTopics(chatID)
	if err != nil {
		return nil, err
	}
	return append([]int{GeneralThreadID}, ids...), nil
}
