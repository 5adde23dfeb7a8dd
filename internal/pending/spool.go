package pending

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tuck/internal/domain"
	"github.com/MrSnakeDoc/tuck/internal/logger"
)

const (
	spoolExt      = ".json"
	corruptPrefix = ".corrupt-"
)

// SpoolQueue keeps one file per record in a directory. Each record is
// written to a temp file and renamed into place, so concurrent writers
// never overwrite each other and a reader never sees half a record.
// File names are the record's UUIDv7, so directory order is append order.
type SpoolQueue struct {
	dir string
	log logger.Logger

	mu     sync.Mutex
	loaded map[uuid.UUID]string // record id -> file name, from the last Load
}

// NewSpoolQueue creates dir if needed.
func NewSpoolQueue(dir string, log logger.Logger) (*SpoolQueue, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create spool dir: %w", err)
	}
	return &SpoolQueue{dir: dir, log: log, loaded: map[uuid.UUID]string{}}, nil
}

// Dir is the spool directory, watched by the app to trigger a sync.
func (q *SpoolQueue) Dir() string { return q.dir }

func (q *SpoolQueue) Append(_ context.Context, p domain.PendingBookmarkPayload) error {
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode pending record: %w", err)
	}

	tmp, err := os.CreateTemp(q.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create spool file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write spool file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close spool file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(q.dir, p.ID.String()+spoolExt)); err != nil {
		return fmt.Errorf("publish spool file: %w", err)
	}
	return nil
}

// Load reads every record file. Files that do not decode are renamed to a
// dotfile so they are neither retried nor watched.
func (q *SpoolQueue) Load(_ context.Context) []domain.PendingBookmarkPayload {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := []domain.PendingBookmarkPayload{}
	for _, name := range q.list() {
		data, err := os.ReadFile(filepath.Join(q.dir, name))
		if err != nil {
			q.log.Warn("skipping unreadable spool file", logger.String("file", name), logger.Error(err))
			continue
		}
		var p domain.PendingBookmarkPayload
		if err := json.Unmarshal(data, &p); err != nil {
			q.log.Warn("setting aside corrupt spool file", logger.String("file", name), logger.Error(err))
			if err := os.Rename(filepath.Join(q.dir, name), filepath.Join(q.dir, corruptPrefix+name)); err != nil {
				q.log.Warn("failed to set aside spool file", logger.String("file", name), logger.Error(err))
			}
			continue
		}
		q.loaded[p.ID] = name
		out = append(out, p)
	}
	return out
}

// Remove deletes the files of the given records. Files written after the
// last Load are untouched.
func (q *SpoolQueue) Remove(_ context.Context, ids []uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	var firstErr error
	for _, id := range ids {
		name, ok := q.loaded[id]
		if !ok {
			name = id.String() + spoolExt
		}
		delete(q.loaded, id)
		if err := os.Remove(filepath.Join(q.dir, name)); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = fmt.Errorf("remove spool file %s: %w", name, err)
		}
	}
	return firstErr
}

// Clear removes every record file currently in the spool.
func (q *SpoolQueue) Clear(_ context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	clear(q.loaded)

	var firstErr error
	for _, name := range q.list() {
		if err := os.Remove(filepath.Join(q.dir, name)); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = fmt.Errorf("remove spool file %s: %w", name, err)
		}
	}
	return firstErr
}

// list returns record file names sorted by name. os.ReadDir sorts already.
func (q *SpoolQueue) list() []string {
	entries, err := os.ReadDir(q.dir)
	if err != nil {
		q.log.Warn("failed to list spool dir", logger.String("dir", q.dir), logger.Error(err))
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, spoolExt) {
			continue
		}
		names = append(names, name)
	}
	return names
}

var _ Queue = (*SpoolQueue)(nil)
