package platform

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/humus/pkg/adapters/bolt"
	"github.com/aretw0/humus/pkg/adapters/fs"
	"github.com/aretw0/humus/pkg/adapters/memory"
	"github.com/aretw0/humus/pkg/core"
)

// Init opens and initializes the storage adapter selected by opts.
// The uri is adapter-specific: a directory for fs, a file or directory for bolt,
// and ignored for memory.
func Init(uri string, opts ...Option) (core.Store, error) {
	return initStore(uri, buildOptions(opts))
}

func initStore(uri string, o *options) (core.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	var (
		store core.Store
		err   error
	)
	switch o.adapter {
	case AdapterFS:
		store = initFS(uri, o)
	case AdapterBolt:
		store, err = initBolt(uri, o)
	case AdapterMemory:
		store = memory.NewStore()
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Initialize(context.Background()); err != nil {
		if c, ok := store.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}
	o.logger.Debug("store initialized", "adapter", o.adapter, "uri", uri)
	return store, nil
}

func initFS(path string, o *options) *fs.Repository {
	mustExist, _ := o.config["must_exist"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	strict, _ := o.config["strict"].(bool)
	format, _ := o.config["format"].(string)
	systemDir, _ := o.config["system_dir"].(string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	if path == "" {
		path = "."
	}
	if systemDir == "" {
		systemDir = DefaultSystemDir
	}

	return fs.NewRepository(fs.Config{
		Path:         path,
		Format:       format,
		MustExist:    mustExist,
		ReadOnly:     readOnly,
		Strict:       strict,
		SystemDir:    systemDir,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	})
}

// initBolt opens the database at path. A directory path holds "<systemDir>/humus.db".
func initBolt(path string, o *options) (*bolt.Store, error) {
	mustExist, _ := o.config["must_exist"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	systemDir, _ := o.config["system_dir"].(string)
	if systemDir == "" {
		systemDir = DefaultSystemDir
	}
	if path == "" {
		path = "."
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, systemDir, "humus.db")
	}
	if _, err := os.Stat(path); err != nil {
		if mustExist || readOnly {
			return nil, fmt.Errorf("database does not exist: %s", path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	return bolt.Open(path, bolt.Options{ReadOnly: readOnly, Timeout: time.Second})
}

// Close releases the store behind svc when it holds resources (e.g. a bolt file lock).
func Close(svc *core.Service) error {
	if c, ok := svc.Store().(io.Closer); ok {
		return c.Close()
	}
	return nil
}
