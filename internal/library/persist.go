package library

import (
	"context"
	"errors"
	"log"

	"LWA-backend/internal/platform/storage"
)

const DefaultStateKey = "libraryWorkData"

// Persister mirrors the state document to a Store under one fixed key.
type Persister struct {
	store storage.Store
	key   string
}

func NewPersister(store storage.Store, key string) *Persister {
	if key == "" {
		key = DefaultStateKey
	}
	return &Persister{store: store, key: key}
}

// Save writes the whole document. Failures are logged and swallowed; the caller
// carries on as if the write succeeded.
func (p *Persister) Save(ctx context.Context, st *State) {
	blob, err := Encode(*st)
	if err == nil {
		err = p.store.Put(ctx, p.key, blob)
	}
	if err != nil {
		persistFailuresTotal.WithLabelValues("write").Inc()
		log.Printf("[ERROR] failed to save state %q: %v", p.key, err)
		return
	}
	recordSizes(st)
}

// Load reads the document, falling back to an empty state with default settings
// when nothing is stored or the stored blob cannot be read.
func (p *Persister) Load(ctx context.Context) State {
	blob, err := p.store.Get(ctx, p.key)
	if errors.Is(err, storage.ErrNotFound) {
		log.Printf("[INFO] no stored state under %q, starting empty", p.key)
		return NewState()
	}
	if err != nil {
		persistFailuresTotal.WithLabelValues("read").Inc()
		log.Printf("[ERROR] failed to load state %q: %v", p.key, err)
		return NewState()
	}
	st, err := Decode(blob)
	if err != nil {
		persistFailuresTotal.WithLabelValues("read").Inc()
		log.Printf("[ERROR] failed to load state %q: %v", p.key, err)
		return NewState()
	}
	recordSizes(&st)
	return st
}

// Export returns the raw stored document. Unlike Load it reports errors.
func (p *Persister) Export(ctx context.Context) ([]byte, error) {
	return p.store.Get(ctx, p.key)
}

// Import validates blob as a state document and stores it as-is after the merge.
func (p *Persister) Import(ctx context.Context, blob []byte) (State, error) {
	st, err := Decode(blob)
	if err != nil {
		return State{}, err
	}
	out, err := Encode(st)
	if err != nil {
		return State{}, err
	}
	if err := p.store.Put(ctx, p.key, out); err != nil {
		return State{}, err
	}
	return st, nil
}
