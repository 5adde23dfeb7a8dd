package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tuck/internal/domain"
	"github.com/MrSnakeDoc/tuck/internal/kv"
	"github.com/MrSnakeDoc/tuck/internal/logger"
)

// KVQueue stores the whole queue as one JSON array under kv.KeyPending.
//
// Appends from one process are serialized. When the namespace implements
// kv.Updater the read-modify-write is handed to it; otherwise two processes
// appending at the same instant can still lose one record.
type KVQueue struct {
	mu  sync.Mutex
	ns  kv.Namespace
	log logger.Logger
}

// NewKVQueue returns a queue over ns.
func NewKVQueue(ns kv.Namespace, log logger.Logger) *KVQueue {
	return &KVQueue{ns: ns, log: log}
}

func (q *KVQueue) Append(ctx context.Context, p domain.PendingBookmarkPayload) error {
	if err := p.Validate(); err != nil {
		return err
	}

	err := q.update(ctx, func(list []domain.PendingBookmarkPayload) []domain.PendingBookmarkPayload {
		return append(list, p)
	})
	if err != nil {
		return fmt.Errorf("append pending record: %w", err)
	}
	return nil
}

// Remove rewrites the array without the given records, so a record
// appended since the last Load survives.
func (q *KVQueue) Remove(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	drop := idSet(ids)
	err := q.update(ctx, func(list []domain.PendingBookmarkPayload) []domain.PendingBookmarkPayload {
		kept := list[:0]
		for _, p := range list {
			if _, ok := drop[p.ID]; !ok {
				kept = append(kept, p)
			}
		}
		return kept
	})
	if err != nil {
		return fmt.Errorf("remove pending records: %w", err)
	}
	return nil
}

// update applies fn to the stored array, through kv.Updater when the
// namespace has it.
func (q *KVQueue) update(ctx context.Context, fn func([]domain.PendingBookmarkPayload) []domain.PendingBookmarkPayload) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	apply := func(cur []byte, found bool) ([]byte, error) {
		return json.Marshal(fn(q.decode(cur, found)))
	}

	if u, ok := q.ns.(kv.Updater); ok {
		return u.Update(ctx, kv.KeyPending, apply)
	}

	cur, err := q.ns.Get(ctx, kv.KeyPending)
	found := err == nil
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		q.log.Warn("pending queue unreadable, starting a new one", logger.Error(err))
	}
	next, err := apply(cur, found)
	if err != nil {
		return fmt.Errorf("encode pending queue: %w", err)
	}
	return q.ns.Set(ctx, kv.KeyPending, next)
}

func (q *KVQueue) Load(ctx context.Context) []domain.PendingBookmarkPayload {
	data, err := q.ns.Get(ctx, kv.KeyPending)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			q.log.Warn("failed to read pending queue", logger.Error(err))
		}
		return []domain.PendingBookmarkPayload{}
	}
	return q.decode(data, true)
}

func (q *KVQueue) Clear(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.ns.Delete(ctx, kv.KeyPending); err != nil {
		return fmt.Errorf("clear pending queue: %w", err)
	}
	return nil
}

func (q *KVQueue) decode(data []byte, found bool) []domain.PendingBookmarkPayload {
	list := []domain.PendingBookmarkPayload{}
	if !found || len(data) == 0 {
		return list
	}
	if err := json.Unmarshal(data, &list); err != nil {
		q.log.Warn("pending queue is corrupt, ignoring it", logger.Error(err))
		return []domain.PendingBookmarkPayload{}
	}
	return list
}

var _ Queue = (*KVQueue)(nil)
