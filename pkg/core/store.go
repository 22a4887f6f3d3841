package core

import (
	"context"
	"fmt"
)

// Metadata represents the raw field map of a stored document.
type Metadata map[string]any

// Clone returns a shallow copy of m with list values copied.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		switch list := v.(type) {
		case []string:
			out[k] = append([]string(nil), list...)
		case []any:
			out[k] = append([]any(nil), list...)
		default:
			out[k] = v
		}
	}
	return out
}

// Document is the persisted form of an instance: its kind, identifier and field values.
// Derived properties are never part of a document.
type Document struct {
	Kind   string   `json:"kind"`
	ID     string   `json:"id"`
	Fields Metadata `json:"fields"`
}

// Store defines the contract for persisting and retrieving documents.
// Adhering to this interface keeps the engine independent of the
// underlying storage mechanism (memory, filesystem, bolt, ...).
type Store interface {
	// Initialize ensures the underlying storage is ready (e.g. create directories or buckets).
	Initialize(ctx context.Context) error

	// Create persists a new document and returns its identifier.
	// A document without ID gets one assigned; an ID already in use is ErrAlreadyExists.
	Create(ctx context.Context, doc Document) (string, error)

	// Save persists a document, creating or replacing it.
	Save(ctx context.Context, doc Document) error

	// FindByID retrieves a document. Absence is reported through found, not through err.
	FindByID(ctx context.Context, kind, id string) (doc Document, found bool, err error)

	// List returns all documents of a kind, ordered by ID.
	List(ctx context.Context, kind string) ([]Document, error)

	// Delete removes a document. Removing a missing document is ErrNotFound.
	Delete(ctx context.Context, kind, id string) error
}

// Watchable is implemented by stores that can report changes made outside the process.
type Watchable interface {
	// Watch emits events for documents whose "kind/id" path matches the glob pattern.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// EventType represents the type of change in a store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in a store.
type Event struct {
	Type      EventType
	Kind      string
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer (and lifecycle.Event).
func (e Event) String() string {
	return fmt.Sprintf("%s %s/%s", e.Type, e.Kind, e.ID)
}

// Path returns the "kind/id" path used for pattern matching.
func (d Document) Path() string {
	return d.Kind + "/" + d.ID
}

// Clone returns a copy of d that shares no mutable state with it.
func (d Document) Clone() Document {
	d.Fields = d.Fields.Clone()
	return d
}
