package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"

	"github.com/thoughtcast/thoughtcast/internal/timeutil"
)

const runsBucket = "runs"

// Run describes one recording process.
type Run struct {
	Started time.Time `json:"started"`
	Ended   time.Time `json:"ended"`
	PID     int       `json:"pid"`
}

// Lock is held by the process that records. It is a bbolt database whose
// file lock prevents a second recorder from starting, and which keeps a
// short log of recording runs.
type Lock struct {
	db  *bolt.DB
	key []byte
	run Run
}

func openDB(path string, timeout time.Duration) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(path, fileMode, &bolt.Options{
		Timeout: timeout,
	})
	if err != nil {
		// a held file lock surfaces as a timeout
		if errors.Is(err, berrors.ErrTimeout) {
			return nil, ErrAlreadyRunning
		}

		return nil, err
	}

	return db, nil
}

// AcquireLock opens the lock database at path and records the current run.
// It returns ErrAlreadyRunning if another process holds the lock.
func AcquireLock(path string) (*Lock, error) {
	db, err := openDB(path, 1*time.Second)
	if err != nil {
		return nil, err
	}

	l := &Lock{
		db: db,
		run: Run{
			Started: time.Now(),
			PID:     os.Getpid(),
		},
	}

	l.key = timeutil.ToKey(l.run.Started)

	err = l.put()
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return l, nil
}

func (l *Lock) put() error {
	value, err := json.Marshal(l.run)
	if err != nil {
		return err
	}

	return l.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(runsBucket))
		if err != nil {
			return err
		}

		return b.Put(l.key, value)
	})
}

// Release records the end of the run and releases the lock.
func (l *Lock) Release() error {
	l.run.Ended = time.Now()

	err := l.put()

	if cerr := l.db.Close(); err == nil {
		err = cerr
	}

	return err
}

// Runs returns the recorded runs, most recent first.
func (l *Lock) Runs() ([]Run, error) {
	var runs []Run

	err := l.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(runsBucket))
		if b == nil {
			return nil
		}

		c := b.Cursor()

		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var r Run

			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}

			runs = append(runs, r)
		}

		return nil
	})

	return runs, err
}

// IsRecording reports whether another process currently holds the lock at
// path.
func IsRecording(path string) (bool, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	db, err := openDB(path, 100*time.Millisecond)
	if errors.Is(err, ErrAlreadyRunning) {
		return true, nil
	}

	if err != nil {
		return false, err
	}

	return false, db.Close()
}
