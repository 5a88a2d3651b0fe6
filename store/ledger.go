// Package store persists recording sessions in the JSON session ledger and
// guards against concurrent recorders
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/thoughtcast/thoughtcast/internal/osutil"
)

// Ledger reads and writes sessions.json. Every read-modify-write cycle
// through one Ledger is serialised.
type Ledger struct {
	path string
	mu   sync.Mutex
}

// NewLedger returns a ledger backed by the file at path.
func NewLedger(path string) *Ledger {
	return &Ledger{path: path}
}

// Path returns the location of the ledger file.
func (l *Ledger) Path() string {
	return l.path
}

// Load returns the ledger contents, creating an empty ledger file if none
// exists yet.
func (l *Ledger) Load() (*SessionIndex, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.load()
}

// Sessions returns every session, newest first.
func (l *Ledger) Sessions() ([]Session, error) {
	idx, err := l.Load()
	if err != nil {
		return nil, err
	}

	return idx.Sessions, nil
}

// Save replaces the ledger contents.
func (l *Ledger) Save(idx *SessionIndex) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.save(idx)
}

// Add inserts a session at the head of the ledger.
func (l *Ledger) Add(sess *Session) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, err := l.load()
	if err != nil {
		return err
	}

	idx.Sessions = slices.Insert(idx.Sessions, 0, *sess)

	return l.save(idx)
}

// Update applies fn to the session with the given id and persists the
// result. It returns ErrNotFound if no such session exists.
func (l *Ledger) Update(id string, fn func(*Session)) (*Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, err := l.load()
	if err != nil {
		return nil, err
	}

	i := slices.IndexFunc(idx.Sessions, func(s Session) bool {
		return s.ID == id
	})
	if i < 0 {
		return nil, ErrNotFound.Fmt(id)
	}

	fn(&idx.Sessions[i])

	if err := l.save(idx); err != nil {
		return nil, err
	}

	updated := idx.Sessions[i]

	return &updated, nil
}

// Find returns the session with the given id.
func (l *Ledger) Find(id string) (*Session, error) {
	idx, err := l.Load()
	if err != nil {
		return nil, err
	}

	for i := range idx.Sessions {
		if idx.Sessions[i].ID == id {
			return &idx.Sessions[i], nil
		}
	}

	return nil, ErrNotFound.Fmt(id)
}

// NextID derives a session identifier from t. When a session recorded in
// the same second already exists, a numeric suffix keeps the id unique.
func (l *Ledger) NextID(t time.Time) (string, error) {
	idx, err := l.Load()
	if err != nil {
		return "", err
	}

	taken := make(map[string]bool, len(idx.Sessions))
	for i := range idx.Sessions {
		taken[idx.Sessions[i].ID] = true
	}

	base := t.Format(IDFormat)
	id := base

	for n := 2; taken[id]; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}

	return id, nil
}

func (l *Ledger) load() (*SessionIndex, error) {
	b, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		idx := &SessionIndex{Sessions: []Session{}}

		return idx, l.save(idx)
	}

	if err != nil {
		return nil, ErrReadLedger.Fmt(l.path).Wrap(err)
	}

	var idx SessionIndex

	if err := json.Unmarshal(b, &idx); err != nil {
		return nil, ErrParseLedger.Fmt(l.path).Wrap(err)
	}

	if idx.Sessions == nil {
		idx.Sessions = []Session{}
	}

	return &idx, nil
}

// save writes the ledger to a temporary file first so that readers never
// observe a partially written document.
func (l *Ledger) save(idx *SessionIndex) error {
	if idx.Sessions == nil {
		idx.Sessions = []Session{}
	}

	b, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return ErrWriteLedger.Fmt(l.path).Wrap(err)
	}

	dir := filepath.Dir(l.path)

	if err := os.MkdirAll(dir, osutil.DirPermission); err != nil {
		return ErrWriteLedger.Fmt(l.path).Wrap(err)
	}

	f, err := os.CreateTemp(dir, ".sessions-*.json")
	if err != nil {
		return ErrWriteLedger.Fmt(l.path).Wrap(err)
	}

	tmp := f.Name()

	_, err = f.Write(b)
	if err == nil {
		err = f.Sync()
	}

	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err == nil {
		err = os.Rename(tmp, l.path)
	}

	if err != nil {
		_ = os.Remove(tmp)
		return ErrWriteLedger.Fmt(l.path).Wrap(err)
	}

	return nil
}
