package redis

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/MrSnakeDoc/tuck/internal/kv"
	"github.com/MrSnakeDoc/tuck/internal/logger"
)

func openTest(t *testing.T) (kv.Namespace, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	ns, err := kv.Open(context.Background(), kv.Config{
		Driver:  "redis",
		Suite:   "group.test",
		Options: map[string]any{"addr": s.Addr(), "connect_timeout": "2s"},
		Logger:  logger.New("error", false),
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = ns.Close() })
	return ns, s
}

func TestKeysArePrefixedWithSuite(t *testing.T) {
	ctx := context.Background()
	ns, s := openTest(t)

	if err := ns.Set(ctx, kv.KeyAuthToken, []byte("tok")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get("group.test:authToken")
	if err != nil || got != "tok" {
		t.Fatalf("raw key = %q, %v", got, err)
	}

	v, err := ns.Get(ctx, kv.KeyAuthToken)
	if err != nil || string(v) != "tok" {
		t.Fatalf("Get() = %q, %v", v, err)
	}

	if err := ns.Delete(ctx, kv.KeyAuthToken); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := ns.Get(ctx, kv.KeyAuthToken); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("Get() after Delete error = %v, want ErrNotFound", err)
	}
}

func TestUpdateConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	ns, _ := openTest(t)
	u := ns.(kv.Updater)

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- u.Update(ctx, "log", func(cur []byte, _ bool) ([]byte, error) {
				return append(cur, 'x'), nil
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}

	got, err := ns.Get(ctx, "log")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got) != writers {
		t.Errorf("len(value) = %d, want %d (lost update)", len(got), writers)
	}
}

func TestPing(t *testing.T) {
	ns, s := openTest(t)
	if err := ns.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	s.Close()
	if err := ns.Ping(context.Background()); err == nil {
		t.Error("Ping() after server shutdown should fail")
	}
}
