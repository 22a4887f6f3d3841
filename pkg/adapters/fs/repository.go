// Package fs stores entity documents as files, one per instance, laid out as
// <root>/<kind>/<id><ext>.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/humus/pkg/core"
)

// Repository implements core.Store on top of the filesystem.
type Repository struct {
	Path        string
	config      Config
	serializers map[string]Serializer
	readOnly    bool

	mu            sync.RWMutex // guards the watcher flag and file writes
	watcherActive bool
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path         string
	Format       string // extension used for new files: ".json" (default) or ".yaml"
	MustExist    bool
	ReadOnly     bool
	Strict       bool   // decode JSON numbers as json.Number
	SystemDir    string // e.g. ".humus"; skipped when listing kinds
	Logger       *slog.Logger
	ErrorHandler func(error) // receives background watcher errors
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Format == "" {
		config.Format = ".json"
	}
	if !strings.HasPrefix(config.Format, ".") {
		config.Format = "." + config.Format
	}
	return &Repository{
		Path:        config.Path,
		config:      config,
		serializers: DefaultSerializers(config.Strict),
		readOnly:    config.ReadOnly,
	}
}

// Initialize checks or creates the root directory.
func (r *Repository) Initialize(ctx context.Context) error {
	if _, ok := r.serializer(r.config.Format); !ok {
		return fmt.Errorf("unsupported format %q", r.config.Format)
	}

	if r.config.MustExist || r.readOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("store path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", r.Path)
		}
		return nil
	}

	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}

// Create writes a new document. An empty ID is replaced by a fresh uuid.
func (r *Repository) Create(ctx context.Context, doc core.Document) (string, error) {
	if err := r.checkWritable(); err != nil {
		return "", err
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if err := validateRef(doc.Kind, doc.ID); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, _, found := r.locate(doc.Kind, doc.ID); found {
		return "", fmt.Errorf("%s: %w", doc.Path(), core.ErrAlreadyExists)
	}
	if err := r.write(doc); err != nil {
		return "", err
	}
	r.config.Logger.Debug("document created", "kind", doc.Kind, "id", doc.ID)
	return doc.ID, nil
}

// Save writes a document, replacing any previous file for the same ID.
func (r *Repository) Save(ctx context.Context, doc core.Document) error {
	if err := r.checkWritable(); err != nil {
		return err
	}
	if err := validateRef(doc.Kind, doc.ID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// A file in another format would shadow or duplicate the new one.
	if path, ext, found := r.locate(doc.Kind, doc.ID); found && ext != r.config.Format {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove stale %s: %w", path, err)
		}
	}
	return r.write(doc)
}

func (r *Repository) write(doc core.Document) error {
	s := r.serializers[r.config.Format]
	data, err := s.Serialize(doc.Fields)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", doc.Path(), err)
	}

	dir := filepath.Join(r.Path, doc.Kind)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dir, doc.ID+r.config.Format), data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// FindByID reads a document. A missing file is reported as not found, not as an error.
func (r *Repository) FindByID(ctx context.Context, kind, id string) (core.Document, bool, error) {
	if err := validateRef(kind, id); err != nil {
		return core.Document{}, false, err
	}

	r.mu.RLock()
	path, ext, found := r.locate(kind, id)
	r.mu.RUnlock()
	if !found {
		return core.Document{}, false, nil
	}

	fields, err := r.read(path, ext)
	if errors.Is(err, os.ErrNotExist) {
		return core.Document{}, false, nil
	}
	if err != nil {
		return core.Document{}, false, err
	}
	return core.Document{Kind: kind, ID: id, Fields: fields}, true, nil
}

// List reads every document of kind ordered by ID. Unparseable files are skipped.
func (r *Repository) List(ctx context.Context, kind string) ([]core.Document, error) {
	if err := validateRef(kind, "x"); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(r.Path, kind))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}

	var docs []core.Document
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || strings.HasPrefix(e.Name(), TempFilePrefix) {
			continue
		}
		ext := filepath.Ext(e.Name())
		if _, ok := r.serializer(ext); !ok {
			continue
		}

		fields, err := r.read(filepath.Join(r.Path, kind, e.Name()), ext)
		if err != nil {
			r.config.Logger.Warn("skipping unreadable document", "file", e.Name(), "error", err)
			continue
		}
		docs = append(docs, core.Document{
			Kind:   kind,
			ID:     strings.TrimSuffix(e.Name(), ext),
			Fields: fields,
		})
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// Kinds lists the kind directories present under the root.
func (r *Repository) Kinds() ([]string, error) {
	entries, err := os.ReadDir(r.Path)
	if err != nil {
		return nil, err
	}
	var kinds []string
	for _, e := range entries {
		if e.IsDir() && e.Name() != r.config.SystemDir && !strings.HasPrefix(e.Name(), ".") {
			kinds = append(kinds, e.Name())
		}
	}
	return kinds, nil
}

// Delete removes a document.
func (r *Repository) Delete(ctx context.Context, kind, id string) error {
	if err := r.checkWritable(); err != nil {
		return err
	}
	if err := validateRef(kind, id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	path, _, found := r.locate(kind, id)
	if !found {
		return fmt.Errorf("%s/%s: %w", kind, id, core.ErrNotFound)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	r.config.Logger.Debug("document deleted", "kind", kind, "id", id)
	return nil
}

// IsReadOnly reports whether writes are rejected.
func (r *Repository) IsReadOnly() bool {
	return r.readOnly
}

func (r *Repository) checkWritable() error {
	if r.readOnly {
		return core.ErrReadOnly
	}
	return nil
}

// locate finds the file of kind/id, preferring the configured format.
// Callers hold r.mu.
func (r *Repository) locate(kind, id string) (path, ext string, found bool) {
	for _, ext := range r.extensions() {
		p := filepath.Join(r.Path, kind, id+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, ext, true
		}
	}
	return "", "", false
}

func (r *Repository) extensions() []string {
	exts := []string{r.config.Format}
	others := make([]string, 0, len(r.serializers))
	for ext := range r.serializers {
		if ext != r.config.Format {
			others = append(others, ext)
		}
	}
	sort.Strings(others)
	return append(exts, others...)
}

func (r *Repository) serializer(ext string) (Serializer, bool) {
	s, ok := r.serializers[ext]
	return s, ok
}

func (r *Repository) read(path, ext string) (core.Metadata, error) {
	s, ok := r.serializer(ext)
	if !ok {
		return nil, fmt.Errorf("no serializer for %s", ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fields, err := s.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return fields, nil
}

// validateRef keeps kind and id inside their directory.
func validateRef(kind, id string) error {
	for _, part := range []string{kind, id} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return fmt.Errorf("%w: bad document reference %q/%q", core.ErrInvalidArgument, kind, id)
		}
	}
	return nil
}

var _ core.Store = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
