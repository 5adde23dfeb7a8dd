// Package file is a kv driver backed by one JSON document per suite.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/MrSnakeDoc/tuck/internal/kv"
)

func init() {
	kv.Register("file", Open)
}

// Options for the file driver.
type Options struct {
	Perm uint32 `mapstructure:"perm"` // file mode for the document, default 0600
}

func (o *Options) ApplyDefaults() {
	if o.Perm == 0 {
		o.Perm = 0o600
	}
}

// Namespace stores every key of a suite in <dir>/<suite>.json.
// The document is re-read on every access so that writes from another
// process are visible without a restart. Writes hold an advisory lock on
// <dir>/<suite>.json.lock on unix systems.
type Namespace struct {
	mu    sync.RWMutex
	path  string
	suite string
	perm  fs.FileMode
}

// Open is the kv.Factory for the file driver.
func Open(_ context.Context, cfg kv.Config) (kv.Namespace, error) {
	if cfg.Dir == "" {
		return nil, errors.New("dir is required for file driver")
	}
	var opts Options
	if err := kv.DecodeOptions(cfg.Options, &opts); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("create dir: %w", err)
	}
	return &Namespace{
		path:  filepath.Join(cfg.Dir, cfg.Suite+".json"),
		suite: cfg.Suite,
		perm:  fs.FileMode(opts.Perm),
	}, nil
}

func (n *Namespace) Name() string { return "file:" + n.suite }

func (n *Namespace) Get(_ context.Context, key string) ([]byte, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	doc, err := n.read()
	if err != nil {
		return nil, err
	}
	v, ok := doc[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return v, nil
}

func (n *Namespace) Set(ctx context.Context, key string, value []byte) error {
	return n.Update(ctx, key, func([]byte, bool) ([]byte, error) { return value, nil })
}

func (n *Namespace) Delete(_ context.Context, key string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	unlock, err := n.lock()
	if err != nil {
		return err
	}
	defer unlock()

	doc, err := n.read()
	if err != nil {
		return err
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return n.write(doc)
}

// Update runs fn under the namespace mutex and the document's file lock.
func (n *Namespace) Update(_ context.Context, key string, fn kv.UpdateFunc) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	unlock, err := n.lock()
	if err != nil {
		return err
	}
	defer unlock()

	doc, err := n.read()
	if err != nil {
		return err
	}
	cur, found := doc[key]
	next, err := fn(cur, found)
	if err != nil {
		return err
	}
	doc[key] = next
	return n.write(doc)
}

func (n *Namespace) Ping(context.Context) error {
	_, err := os.Stat(filepath.Dir(n.path))
	return err
}

func (n *Namespace) Close() error { return nil }

func (n *Namespace) read() (map[string][]byte, error) {
	doc := make(map[string][]byte)
	data, err := os.ReadFile(n.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", n.path, err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", n.path, err)
	}
	return doc, nil
}

// write replaces the document through a temp file and rename.
func (n *Namespace) write(doc map[string][]byte) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(n.path), ".tmp-"+n.suite+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(n.perm); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), n.path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

var (
	_ kv.Namespace = (*Namespace)(nil)
	_ kv.Updater   = (*Namespace)(nil)
)
