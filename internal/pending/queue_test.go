package pending

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tuck/internal/domain"
	"github.com/MrSnakeDoc/tuck/internal/kv"
	"github.com/MrSnakeDoc/tuck/internal/kv/file"
	"github.com/MrSnakeDoc/tuck/internal/logger"
)

var testLog = logger.New("error", false)

type queueFactory struct {
	name string
	new  func(t *testing.T) Queue
}

func factories() []queueFactory {
	return []queueFactory{
		{"kv", func(t *testing.T) Queue {
			ns, err := file.Open(context.Background(), kv.Config{Dir: t.TempDir(), Suite: "group.test"})
			if err != nil {
				t.Fatal(err)
			}
			return NewKVQueue(ns, testLog)
		}},
		{"spool", func(t *testing.T) Queue {
			q, err := NewSpoolQueue(filepath.Join(t.TempDir(), "Pending"), testLog)
			if err != nil {
				t.Fatal(err)
			}
			return q
		}},
	}
}

func ids(list []domain.PendingBookmarkPayload) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.ID.String()
	}
	return out
}

func TestQueueAppendLoadClear(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			q := f.new(t)

			if got := q.Load(ctx); got == nil || len(got) != 0 {
				t.Fatalf("Load() on empty queue = %v, want empty non-nil", got)
			}

			want := []domain.PendingBookmarkPayload{
				domain.NewURLPayload("Youtube", "Videos to Watch", "Video", "https://youtube.com/watch?v=1"),
				domain.NewTextPayload("Text", "Bookmarks", "Quote", "hello"),
				domain.NewAssetPayload("Photo", "Bookmarks", "Photo", domain.NewAsset("a.jpg", "public.jpeg", "")),
			}
			for _, p := range want {
				if err := q.Append(ctx, p); err != nil {
					t.Fatalf("Append() error = %v", err)
				}
			}

			got := q.Load(ctx)
			if diff := cmp.Diff(ids(want), ids(got)); diff != "" {
				t.Fatalf("Load() order mismatch (-want +got):\n%s", diff)
			}
			if got[1].Text == nil || *got[1].Text != "hello" {
				t.Errorf("text record not preserved: %+v", got[1])
			}

			if err := q.Clear(ctx); err != nil {
				t.Fatalf("Clear() error = %v", err)
			}
			if got := q.Load(ctx); len(got) != 0 {
				t.Errorf("Load() after Clear = %d records, want 0", len(got))
			}
		})
	}
}

func TestQueueRejectsInvalidRecord(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			p := domain.NewURLPayload("t", "f", "Article", "https://example.com")
			p.Kind = domain.KindText

			if err := f.new(t).Append(context.Background(), p); !errors.Is(err, domain.ErrInvalidPayload) {
				t.Errorf("Append() error = %v, want ErrInvalidPayload", err)
			}
		})
	}
}

func TestQueueConcurrentAppendsInProcess(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			q := f.new(t)

			const n = 16
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := q.Append(ctx, domain.NewTextPayload("Text", "Bookmarks", "Quote", "x")); err != nil {
						t.Errorf("Append() error = %v", err)
					}
				}()
			}
			wg.Wait()

			if got := len(q.Load(ctx)); got != n {
				t.Errorf("Load() = %d records, want %d", got, n)
			}
		})
	}
}

func TestKVQueueCorruptDataLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	ns, err := file.Open(ctx, kv.Config{Dir: t.TempDir(), Suite: "group.test"})
	if err != nil {
		t.Fatal(err)
	}
	if err := ns.Set(ctx, kv.KeyPending, []byte(`{"not":"an array"}`)); err != nil {
		t.Fatal(err)
	}

	q := NewKVQueue(ns, testLog)
	if got := q.Load(ctx); len(got) != 0 {
		t.Fatalf("Load() on corrupt data = %v, want empty", got)
	}

	// Appending over corrupt data starts a fresh array.
	if err := q.Append(ctx, domain.NewTextPayload("Text", "Bookmarks", "Quote", "x")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if got := len(q.Load(ctx)); got != 1 {
		t.Errorf("Load() = %d records, want 1", got)
	}
}

type brokenNS struct{ kv.Namespace }

func (brokenNS) Get(context.Context, string) ([]byte, error) { return nil, errors.New("disk on fire") }

func TestKVQueueReadErrorLoadsEmpty(t *testing.T) {
	q := NewKVQueue(brokenNS{}, testLog)
	if got := q.Load(context.Background()); got == nil || len(got) != 0 {
		t.Errorf("Load() with read error = %v, want empty non-nil", got)
	}
}

func TestSpoolQueueSkipsBadFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	q, err := NewSpoolQueue(dir, testLog)
	if err != nil {
		t.Fatal(err)
	}

	good := domain.NewTextPayload("Text", "Bookmarks", "Quote", "ok")
	if err := q.Append(ctx, good); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "zzzz.json"), []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".tmp-123"), []byte("in flight"), 0o600); err != nil {
		t.Fatal(err)
	}

	got := q.Load(ctx)
	if len(got) != 1 || got[0].ID != good.ID {
		t.Fatalf("Load() = %v, want only the good record", ids(got))
	}

	if _, err := os.Stat(filepath.Join(dir, "zzzz.json")); !os.IsNotExist(err) {
		t.Error("corrupt record file should be set aside by Load()")
	}
	if _, err := os.Stat(filepath.Join(dir, corruptPrefix+"zzzz.json")); err != nil {
		t.Errorf("corrupt record file not kept aside: %v", err)
	}
	if got := q.Load(ctx); len(got) != 1 {
		t.Errorf("second Load() = %d records, want 1", len(got))
	}

	if err := q.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if got := q.Load(ctx); len(got) != 0 {
		t.Errorf("Load() after Clear = %d records, want 0", len(got))
	}
	if _, err := os.Stat(filepath.Join(dir, ".tmp-123")); err != nil {
		t.Error("Clear() should leave in-flight temp files alone")
	}
}

func TestQueueRemoveKeepsLaterAppends(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			q := f.new(t)

			first := domain.NewTextPayload("One", "Bookmarks", "Quote", "1")
			second := domain.NewTextPayload("Two", "Bookmarks", "Quote", "2")
			for _, p := range []domain.PendingBookmarkPayload{first, second} {
				if err := q.Append(ctx, p); err != nil {
					t.Fatal(err)
				}
			}
			loaded := q.Load(ctx)

			late := domain.NewTextPayload("Late", "Bookmarks", "Quote", "3")
			if err := q.Append(ctx, late); err != nil {
				t.Fatal(err)
			}

			drained := make([]uuid.UUID, len(loaded))
			for i, p := range loaded {
				drained[i] = p.ID
			}
			if err := q.Remove(ctx, drained); err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
			if diff := cmp.Diff([]string{late.ID.String()}, ids(q.Load(ctx))); diff != "" {
				t.Errorf("Load() after Remove mismatch (-want +got):\n%s", diff)
			}

			if err := q.Remove(ctx, []uuid.UUID{uuid.New()}); err != nil {
				t.Errorf("Remove() of unknown id error = %v", err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	if _, err := New("carrier-pigeon", nil, "", testLog); err == nil {
		t.Error("New() with unknown kind should fail")
	}
	q, err := New(KindSpool, nil, t.TempDir(), testLog)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := q.(*SpoolQueue); !ok {
		t.Errorf("New(spool) = %T", q)
	}
}
