package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	bolt "go.etcd.io/bbolt"

	"github.com/pluqqy/gridkit/pkg/dataset"
	"github.com/pluqqy/gridkit/pkg/models"
)

var (
	// ErrNoTable is returned when a table is not in the store.
	ErrNoTable = errors.New("no such table")
	// ErrConflict is returned when a saved row no longer matches the store.
	ErrConflict = errors.New("row changed in store")
	// ErrDuplicateID is returned when an inserted row reuses an id.
	ErrDuplicateID = errors.New("duplicate id")
)

// Tables returns the names of all tables, sorted.
func (s *dbStore) Tables() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSchemas)).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// Table reads a table with its rows in key order.
func (s *dbStore) Table(name string) (*models.Table, error) {
	var t *models.Table
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		t, err = getSchema(tx, name)
		if err != nil {
			return err
		}
		t.Rows = [][]any{}
		b := tx.Bucket(rowsBucket(name))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			values, err := unmarshalRow(v, len(t.Fields))
			if err != nil {
				return err
			}
			t.Rows = append(t.Rows, values)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// PutTable stores a table, replacing any table of the same name.
func (s *dbStore) PutTable(t *models.Table) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid table: %w", err)
	}
	fields, _, err := t.Load()
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := putSchema(tx, t); err != nil {
			return err
		}
		if tx.Bucket(rowsBucket(t.Name)) != nil {
			if err := tx.DeleteBucket(rowsBucket(t.Name)); err != nil {
				return err
			}
		}
		b, err := tx.CreateBucket(rowsBucket(t.Name))
		if err != nil {
			return err
		}
		rk := newRowKeys(fields, t.IDField)
		for _, raw := range t.Rows {
			values := models.NormalizeValues(fields, raw)
			key, err := rk.insertKey(b, values)
			if err != nil {
				return err
			}
			if err := putRow(b, key, values); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteTable removes a table and its rows.
func (s *dbStore) DeleteTable(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		schemas := tx.Bucket([]byte(bucketSchemas))
		if schemas.Get([]byte(name)) == nil {
			return fmt.Errorf("%w: %s", ErrNoTable, name)
		}
		if err := schemas.Delete([]byte(name)); err != nil {
			return err
		}
		if tx.Bucket(rowsBucket(name)) != nil {
			return tx.DeleteBucket(rowsBucket(name))
		}
		return nil
	})
}

func getSchema(tx *bolt.Tx, name string) (*models.Table, error) {
	v := tx.Bucket([]byte(bucketSchemas)).Get([]byte(name))
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoTable, name)
	}
	var t models.Table
	if err := json.Unmarshal(v, &t); err != nil {
		return nil, fmt.Errorf("failed to decode schema of %s: %w", name, err)
	}
	return &t, nil
}

func putSchema(tx *bolt.Tx, t *models.Table) error {
	schema := *t
	schema.Rows = nil
	data, err := json.Marshal(&schema)
	if err != nil {
		return fmt.Errorf("failed to encode schema of %s: %w", t.Name, err)
	}
	return tx.Bucket([]byte(bucketSchemas)).Put([]byte(t.Name), data)
}

func putRow(b *bolt.Bucket, key []byte, values []any) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}
	return b.Put(key, data)
}

func unmarshalRow(data []byte, n int) ([]any, error) {
	var values []any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to decode row: %w", err)
	}
	if len(values) != n {
		return nil, fmt.Errorf("stored row has %d values, want %d", len(values), n)
	}
	return values, nil
}

// rowKeys maps rows to bucket keys. A row whose id is a positive whole
// number is keyed by it; other rows take the bucket's next sequence.
type rowKeys struct {
	fields []*dataset.Field
	id     *dataset.Field
}

func newRowKeys(fields []*dataset.Field, idField string) rowKeys {
	rk := rowKeys{fields: fields}
	for _, f := range fields {
		if f.Name == idField {
			rk.id = f
		}
	}
	return rk
}

func (rk rowKeys) numericID() bool {
	return rk.id != nil && rk.id.Type == dataset.TypeNumber
}

// insertKey picks the key of a new row, filling in a missing numeric id.
func (rk rowKeys) insertKey(b *bolt.Bucket, values []any) ([]byte, error) {
	if rk.numericID() {
		if key, ok := idKey(values[rk.id.Index]); ok {
			if b.Get(key) != nil {
				return nil, fmt.Errorf("%w: %v", ErrDuplicateID, values[rk.id.Index])
			}
			if seq := unmarshalSeq(key); seq > b.Sequence() {
				if err := b.SetSequence(seq); err != nil {
					return nil, err
				}
			}
			return key, nil
		}
	}
	seq, err := b.NextSequence()
	if err != nil {
		return nil, err
	}
	if rk.numericID() && values[rk.id.Index] == nil {
		values[rk.id.Index] = float64(seq)
	}
	return marshalSeq(seq), nil
}

// find returns the key of the stored row matching rec, or nil.
func (rk rowKeys) find(b *bolt.Bucket, rec dataset.Record) ([]byte, error) {
	if rk.numericID() {
		if key, ok := idKey(rec[rk.id.Name]); ok && b.Get(key) != nil {
			return key, nil
		}
	}
	var found []byte
	c := b.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		values, err := unmarshalRow(v, len(rk.fields))
		if err != nil {
			return nil, err
		}
		if rk.matches(models.NormalizeValues(rk.fields, values), rec) {
			found = append([]byte(nil), k...)
			break
		}
	}
	return found, nil
}

func (rk rowKeys) matches(values []any, rec dataset.Record) bool {
	if rk.id != nil {
		return dataset.SameValue(values[rk.id.Index], rec[rk.id.Name])
	}
	for _, f := range rk.fields {
		if !dataset.SameValue(values[f.Index], rec[f.Name]) {
			return false
		}
	}
	return true
}

func idKey(v any) ([]byte, bool) {
	n, ok := v.(float64)
	if !ok || n < 1 || n != math.Trunc(n) || n > 1<<53 {
		return nil, false
	}
	return marshalSeq(uint64(n)), true
}
