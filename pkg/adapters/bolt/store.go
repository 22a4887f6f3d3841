// Package bolt stores entity documents in a single bolt database file,
// one bucket per kind, keyed by instance identifier.
package bolt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/google/uuid"

	"github.com/aretw0/humus/pkg/core"
)

// Store implements core.Store on a bolt database.
type Store struct {
	DB       *bolt.DB
	readOnly bool
}

// Options configures Open.
type Options struct {
	ReadOnly bool
	Timeout  time.Duration // how long to wait for the file lock; zero waits forever
}

// Open opens or creates the database at path.
func Open(path string, opts Options) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{ReadOnly: opts.ReadOnly, Timeout: opts.Timeout})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	return &Store{DB: db, readOnly: opts.ReadOnly}, nil
}

// Close the database and release the file lock.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Initialize implements core.Store. Buckets are created on first write.
func (s *Store) Initialize(ctx context.Context) error {
	return nil
}

// Create stores a new document.
func (s *Store) Create(ctx context.Context, doc core.Document) (string, error) {
	if s.readOnly {
		return "", core.ErrReadOnly
	}
	if doc.Kind == "" {
		return "", fmt.Errorf("%w: document has no kind", core.ErrInvalidArgument)
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	value, err := encode(doc.Fields)
	if err != nil {
		return "", err
	}

	err = s.DB.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(doc.Kind))
		if err != nil {
			return err
		}
		if bucket.Get([]byte(doc.ID)) != nil {
			return fmt.Errorf("%s: %w", doc.Path(), core.ErrAlreadyExists)
		}
		return bucket.Put([]byte(doc.ID), value)
	})
	if err != nil {
		return "", err
	}
	return doc.ID, nil
}

// Save creates or replaces a document.
func (s *Store) Save(ctx context.Context, doc core.Document) error {
	if s.readOnly {
		return core.ErrReadOnly
	}
	if doc.Kind == "" || doc.ID == "" {
		return fmt.Errorf("%w: document needs a kind and an ID", core.ErrInvalidArgument)
	}

	value, err := encode(doc.Fields)
	if err != nil {
		return err
	}
	return s.DB.Batch(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(doc.Kind))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(doc.ID), value)
	})
}

// FindByID reads a document; a missing bucket or key is reported as not found.
func (s *Store) FindByID(ctx context.Context, kind, id string) (core.Document, bool, error) {
	var (
		fields core.Metadata
		found  bool
	)
	err := s.DB.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(kind))
		if bucket == nil {
			return nil
		}
		value := bucket.Get([]byte(id))
		if value == nil {
			return nil
		}
		found = true
		var err error
		fields, err = decode(value)
		return err
	})
	if err != nil || !found {
		return core.Document{}, false, err
	}
	return core.Document{Kind: kind, ID: id, Fields: fields}, true, nil
}

// List returns the documents of kind in key order.
func (s *Store) List(ctx context.Context, kind string) ([]core.Document, error) {
	var docs []core.Document
	err := s.DB.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(kind))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fields, err := decode(v)
			if err != nil {
				return fmt.Errorf("%s/%s: %w", kind, k, err)
			}
			docs = append(docs, core.Document{Kind: kind, ID: string(k), Fields: fields})
			return nil
		})
	})
	return docs, err
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, kind, id string) error {
	if s.readOnly {
		return core.ErrReadOnly
	}
	return s.DB.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(kind))
		if bucket == nil || bucket.Get([]byte(id)) == nil {
			return fmt.Errorf("%s/%s: %w", kind, id, core.ErrNotFound)
		}
		return bucket.Delete([]byte(id))
	})
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "bolt"
}

func encode(fields core.Metadata) ([]byte, error) {
	if fields == nil {
		fields = core.Metadata{}
	}
	value, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	return value, nil
}

func decode(value []byte) (core.Metadata, error) {
	var fields core.Metadata
	dec := json.NewDecoder(bytes.NewReader(value))
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return fields, nil
}

var _ core.Store = (*Store)(nil)
