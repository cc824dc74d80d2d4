package storage

import "sync"

// Overlay stages writes and deletes on top of a base database without touching
// it. Commit flushes the staged changes in one pass; dropping the overlay
// discards them. State transitions run against an overlay so a failed
// operation leaves the committed state exactly as it was.
type Overlay struct {
	mu      sync.RWMutex
	base    Database
	writes  map[string][]byte
	deletes map[string]struct{}
}

// NewOverlay creates an empty overlay on top of base.
func NewOverlay(base Database) *Overlay {
	return &Overlay{
		base:    base,
		writes:  make(map[string][]byte),
		deletes: make(map[string]struct{}),
	}
}

func (o *Overlay) Put(key []byte, value []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	k := string(key)
	delete(o.deletes, k)
	o.writes[k] = append([]byte(nil), value...)
	return nil
}

func (o *Overlay) Get(key []byte) ([]byte, error) {
	o.mu.RLock()
	k := string(key)
	if _, gone := o.deletes[k]; gone {
		o.mu.RUnlock()
		return nil, ErrKeyNotFound
	}
	if value, ok := o.writes[k]; ok {
		o.mu.RUnlock()
		return append([]byte(nil), value...), nil
	}
	o.mu.RUnlock()
	return o.base.Get(key)
}

func (o *Overlay) Delete(key []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	k := string(key)
	delete(o.writes, k)
	o.deletes[k] = struct{}{}
	return nil
}

func (o *Overlay) Has(key []byte) (bool, error) {
	o.mu.RLock()
	k := string(key)
	if _, gone := o.deletes[k]; gone {
		o.mu.RUnlock()
		return false, nil
	}
	if _, ok := o.writes[k]; ok {
		o.mu.RUnlock()
		return true, nil
	}
	o.mu.RUnlock()
	return o.base.Has(key)
}

// Close discards the staged changes without applying them.
func (o *Overlay) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.writes = make(map[string][]byte)
	o.deletes = make(map[string]struct{})
}

// Commit applies the staged changes to the base database and resets the
// overlay for reuse.
func (o *Overlay) Commit() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for key := range o.deletes {
		if err := o.base.Delete([]byte(key)); err != nil {
			return err
		}
	}
	for key, value := range o.writes {
		if err := o.base.Put([]byte(key), value); err != nil {
			return err
		}
	}
	o.writes = make(map[string][]byte)
	o.deletes = make(map[string]struct{})
	return nil
}

// Dirty reports whether the overlay holds uncommitted changes.
func (o *Overlay) Dirty() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.writes) > 0 || len(o.deletes) > 0
}
