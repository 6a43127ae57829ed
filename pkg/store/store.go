// Package store keeps the state of the command line between invocations of
// the executable, in a bbolt database.
package store

import (
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/Gaelan/fish-shell/pkg/logutil"
)

var logger = logutil.GetLogger("[store] ")

// Functions that initialize buckets, run in one transaction when a database is
// opened.
var initDB = map[string]func(*bolt.Tx) error{}

// Store is a database of command line state.
type Store struct {
	db *bolt.DB
}

// Open opens the database at the given path, creating it if necessary. It
// waits at most one second for another process to release the file.
func Open(dbname string) (*Store, error) {
	db, err := bolt.Open(dbname, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	logger.Debug("opened database", "path", dbname)

	err = db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				logger.Error("failed to initialize database", "step", name, "err", err)
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
