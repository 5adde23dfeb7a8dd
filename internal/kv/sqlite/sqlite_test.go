package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/MrSnakeDoc/tuck/internal/kv"
)

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	ns, err := kv.Open(ctx, kv.Config{Driver: "sqlite", Dir: dir, Suite: "group.test"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer ns.Close()

	if _, err := ns.Get(ctx, kv.KeyCurrentUser); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
	if err := ns.Set(ctx, kv.KeyCurrentUser, []byte(`{"email":"a@b.c"}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := ns.Set(ctx, kv.KeyCurrentUser, []byte(`{"email":"d@e.f"}`)); err != nil {
		t.Fatalf("second Set() error = %v", err)
	}
	got, err := ns.Get(ctx, kv.KeyCurrentUser)
	if err != nil || string(got) != `{"email":"d@e.f"}` {
		t.Fatalf("Get() = %s, %v", got, err)
	}

	if err := ns.Delete(ctx, kv.KeyCurrentUser); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := ns.Get(ctx, kv.KeyCurrentUser); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("Get() after Delete error = %v", err)
	}
	if err := ns.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestSuitesAreIsolated(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/shared.db"

	a, err := kv.Open(ctx, kv.Config{Driver: "sqlite", Suite: "a", Options: map[string]any{"path": path}})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := kv.Open(ctx, kv.Config{Driver: "sqlite", Suite: "b", Options: map[string]any{"path": path}})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if err := a.Set(ctx, kv.KeyAuthToken, []byte("a-token")); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Get(ctx, kv.KeyAuthToken); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("suite b sees suite a's key: %v", err)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	ns, err := kv.Open(ctx, kv.Config{Driver: "sqlite", Dir: t.TempDir(), Suite: "group.test"})
	if err != nil {
		t.Fatal(err)
	}
	defer ns.Close()

	u := ns.(kv.Updater)
	for i := 0; i < 2; i++ {
		if err := u.Update(ctx, "k", func(cur []byte, _ bool) ([]byte, error) {
			return append(cur, 'y'), nil
		}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}
	got, _ := ns.Get(ctx, "k")
	if string(got) != "yy" {
		t.Errorf("value = %q, want yy", got)
	}
}
