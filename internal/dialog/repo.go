package dialog

import (
	"context"
	"maps"
	"sync"
)

// Repo keeps one dialog per chat in memory. It is lost on restart along with
// the rest of the state.
type Repo struct {
	mu    sync.Mutex
	items map[int64]Item
}

func NewRepo() *Repo { return &Repo{items: map[int64]Item{}} }

// Get never fails; a chat without a dialog is idle.
func (r *Repo) Get(_ context.Context, chatID int64) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[chatID]
	if !ok {
		return &Item{ChatID: chatID, State: StateIdle, Payload: Payload{}}, nil
	}
	it.Payload = maps.Clone(it.Payload)
	return &it, nil
}

func (r *Repo) Set(_ context.Context, chatID int64, state State, payload Payload) error {
	if payload == nil {
		payload = Payload{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[chatID] = Item{ChatID: chatID, State: state, Payload: maps.Clone(payload)}
	return nil
}

func (r *Repo) Reset(_ context.Context, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, chatID)
	return nil
}

// GetString Helper for reading strings from a payload
func GetString(p Payload, key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func GetFloat(p Payload, key string) (float64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}
