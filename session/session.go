// Package session keeps named quantizers alive for concurrent callers and
// persists them after changes settle.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/jsphweid/quantdex/model"
	"github.com/jsphweid/quantdex/quantizer"
	"github.com/jsphweid/quantdex/store"
	"github.com/jsphweid/quantdex/util"
)

// Session guards one quantizer. Every read and write of the quantizer
// goes through View or Update so a recompute is never observed halfway.
type Session struct {
	Id string

	mu sync.Mutex
	// saveMu serializes saves with Delete so a deleted session is never
	// written back.
	saveMu   sync.Mutex
	q        *quantizer.Quantizer
	closed   bool
	debounce func(f func())
	store    store.Store
}

func (s *Session) View(fn func(q *quantizer.Quantizer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.q)
}

// Update runs fn under the session lock and schedules a save.
func (s *Session) Update(fn func(q *quantizer.Quantizer)) {
	s.mu.Lock()
	fn(s.q)
	s.mu.Unlock()
	s.debounce(func() {
		if err := s.Flush(); err != nil {
			slog.Error("could not save session", "id", s.Id, "err", err)
		}
	})
}

// Flush saves the current state right away. It is a no-op once the
// session was deleted.
func (s *Session) Flush() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	snap := s.q.Snapshot()
	s.mu.Unlock()
	return s.store.Save(s.Id, snap)
}

type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    store.Store
	wait     time.Duration
}

func NewRegistry(st store.Store, wait time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		store:    st,
		wait:     wait,
	}
}

func (r *Registry) add(id string, q *quantizer.Quantizer) *Session {
	s := &Session{
		Id:       id,
		q:        q,
		debounce: debounce.New(r.wait),
		store:    r.store,
	}
	r.sessions[id] = s
	return s
}

func (r *Registry) Create(p model.Params) (*Session, error) {
	r.mu.Lock()
	s := r.add(uuid.New().String(), quantizer.New(p))
	r.mu.Unlock()

	if err := s.Flush(); err != nil {
		return nil, err
	}
	slog.Info("created session", "id", s.Id)
	return s, nil
}

func (r *Registry) live(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Get returns a live session, loading it from the store on first use.
// The store is read without holding the registry lock.
func (r *Registry) Get(id string) (*Session, error) {
	if s, ok := r.live(id); ok {
		return s, nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fault.Wrap(err, fmsg.With("no session "+id), ftag.With(ftag.NotFound))
	}
	snap, err := r.store.Load(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	slog.Debug("loaded session", "id", id)
	return r.add(id, quantizer.Restore(snap)), nil
}

// Delete waits for an in-flight save of the session before removing it
// from the store.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		s.saveMu.Lock()
		defer s.saveMu.Unlock()
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
	}
	return r.store.Delete(id)
}

// Live lists the ids of sessions held in memory.
func (r *Registry) Live() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return util.GetKeys(r.sessions)
}
