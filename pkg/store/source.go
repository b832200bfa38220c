package store

import (
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/pluqqy/gridkit/pkg/dataset"
	"github.com/pluqqy/gridkit/pkg/models"
)

// Source loads and saves one stored table. It is a dataset.Loader and a
// dataset.Saver.
type Source struct {
	s    *dbStore
	name string
}

// Source returns the load/save hooks of the named table.
func (s *dbStore) Source(name string) *Source {
	return &Source{s: s, name: name}
}

func (src *Source) Load() ([]*dataset.Field, []*dataset.Row, error) {
	t, err := src.s.Table(src.name)
	if err != nil {
		return nil, nil, err
	}
	return t.Load()
}

// Save applies a changeset in one transaction. Either every change is
// stored or none is.
func (src *Source) Save(cs *dataset.Changeset) (*dataset.Reconciliation, error) {
	rec := &dataset.Reconciliation{}
	err := src.s.db.Update(func(tx *bolt.Tx) error {
		t, err := getSchema(tx, src.name)
		if err != nil {
			return err
		}
		fields, _, err := t.Load()
		if err != nil {
			return err
		}
		b, err := tx.CreateBucketIfNotExists(rowsBucket(src.name))
		if err != nil {
			return err
		}
		rk := newRowKeys(fields, t.IDField)

		for _, r := range cs.Remove {
			key, err := rk.find(b, r)
			if err != nil {
				return err
			}
			if key == nil {
				continue
			}
			if err := b.Delete(key); err != nil {
				return err
			}
		}

		for _, u := range cs.Update {
			key, err := rk.find(b, u.OldValues)
			if err != nil {
				return err
			}
			if key == nil {
				return ErrConflict
			}
			values, err := unmarshalRow(b.Get(key), len(fields))
			if err != nil {
				return err
			}
			values = models.NormalizeValues(fields, values)
			for name, v := range u.Values {
				for _, f := range fields {
					if f.Name == name {
						values[f.Index] = v
					}
				}
			}
			if err := putRow(b, key, values); err != nil {
				return err
			}
		}

		for _, in := range cs.Insert {
			values := make([]any, len(fields))
			for _, f := range fields {
				values[f.Index] = in[f.Name]
			}
			given := rk.id != nil && values[rk.id.Index] != nil
			key, err := rk.insertKey(b, values)
			if err != nil {
				return err
			}
			if err := putRow(b, key, values); err != nil {
				return err
			}
			var id any
			if rk.id != nil && !given {
				id = values[rk.id.Index]
			}
			rec.InsertIDs = append(rec.InsertIDs, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save table %s: %w", src.name, err)
	}
	return rec, nil
}
