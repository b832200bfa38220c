// Package store keeps tables in a bbolt database.
package store

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/pluqqy/gridkit/pkg/models"
)

// Store is the interface of the table database.
type Store interface {
	Tables() ([]string, error)
	Table(name string) (*models.Table, error)
	PutTable(t *models.Table) error
	DeleteTable(name string) error
	Source(name string) *Source
	Close() error
}

const bucketSchemas = "schemas"

// rowsBucket names the bucket holding the rows of a table.
func rowsBucket(table string) []byte {
	return []byte("rows:" + table)
}

var initDB = map[string]func(*bolt.Tx) error{}

func init() {
	initDB["initialize table schemas"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSchemas))
		return err
	}
}

type dbStore struct {
	db *bolt.DB
}

// NewStore opens the database at path, creating it if needed.
func NewStore(path string) (Store, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	return newStoreFromDB(db)
}

func newStoreFromDB(db *bolt.DB) (Store, error) {
	st := &dbStore{db: db}
	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

// Close closes the underlying database.
func (s *dbStore) Close() error {
	return s.db.Close()
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
