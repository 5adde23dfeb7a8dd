package syncer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tuck/internal/domain"
	"github.com/MrSnakeDoc/tuck/internal/kv"
	"github.com/MrSnakeDoc/tuck/internal/kv/file"
	"github.com/MrSnakeDoc/tuck/internal/library"
	"github.com/MrSnakeDoc/tuck/internal/logger"
	"github.com/MrSnakeDoc/tuck/internal/pending"
)

type fakeRemote struct {
	calls   []string
	failURL string
	folder  *domain.Folder
	folders []domain.Folder
}

func (f *fakeRemote) AnalyzeAndSaveBookmark(_ context.Context, url string, title, _ *string) (domain.SavedBookmark, error) {
	f.calls = append(f.calls, url+"|"+*title)
	if url == f.failURL {
		return domain.SavedBookmark{}, errors.New("server down")
	}
	return domain.SavedBookmark{Bookmark: domain.NewBookmark(*title, domain.TypeArticle), Folder: f.folder}, nil
}

func (f *fakeRemote) GetFolders(context.Context) ([]domain.Folder, error) {
	return append([]domain.Folder{}, f.folders...), nil
}

func (f *fakeRemote) GetBookmarks(context.Context, *uuid.UUID) ([]domain.Bookmark, error) {
	return []domain.Bookmark{domain.NewBookmark("from server", domain.TypeArticle)}, nil
}

func newQueue(t *testing.T) pending.Queue {
	t.Helper()
	q, err := pending.NewSpoolQueue(filepath.Join(t.TempDir(), "Pending"), logger.New("error", false))
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func TestSyncPendingEmptyDoesNotClear(t *testing.T) {
	ctx := context.Background()
	log := logger.New("error", false)
	remote := &fakeRemote{}
	s := New(newQueue(t), remote, library.New(remote, 0, log), log)

	rep := s.SyncPending(ctx)
	if rep.Attempted != 0 || len(remote.calls) != 0 {
		t.Errorf("report = %+v", rep)
	}
	if _, ok := s.LastReport(); ok {
		t.Error("empty run should not record a report")
	}
}

func TestSyncPendingMixed(t *testing.T) {
	ctx := context.Background()
	log := logger.New("error", false)
	q := newQueue(t)
	server := domain.NewFolder("Reading")
	remote := &fakeRemote{failURL: "https://bad.example", folder: &server, folders: []domain.Folder{server}}
	lib := library.New(remote, 0, log)
	s := New(q, remote, lib, log)

	asset := domain.NewAsset("shot.jpg", "public.jpeg", "shot.jpg")
	records := []domain.PendingBookmarkPayload{
		domain.NewURLPayload("Go", "Bookmarks", "Article", "https://go.dev"),
		domain.NewURLPayload("Bad", "Bookmarks", "Article", "https://bad.example"),
		domain.NewTextPayload("Text", "Startup Ideas", "Quote", "stay hungry"),
		domain.NewAssetPayload("Photo", "Startup Ideas", "Photo", asset),
	}
	for _, r := range records {
		if err := q.Append(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	rep := s.SyncPending(ctx)
	if rep.Attempted != 4 || rep.Saved != 1 || rep.Local != 2 || rep.Failed != 1 {
		t.Fatalf("report = %+v", rep)
	}
	if got := q.Load(ctx); len(got) != 0 {
		t.Errorf("queue should be cleared even after a failure, has %d", len(got))
	}
	if last, ok := s.LastReport(); !ok || last.Attempted != 4 {
		t.Errorf("LastReport() = %+v, %v", last, ok)
	}

	// Unknown server folder triggers a full refresh.
	if _, ok := lib.Folder(server.ID); !ok {
		t.Error("server folder not loaded after smart save")
	}

	ideas, ok := lib.FolderByName("Startup Ideas")
	if !ok || len(ideas.Bookmarks) != 2 {
		t.Fatalf("local folder = %+v, %v", ideas, ok)
	}
	text, photo := ideas.Bookmarks[0], ideas.Bookmarks[1]
	if text.Type != domain.TypeQuote || text.AISummary != LocalSummary || *text.KeyQuote != "stay hungry" {
		t.Errorf("text bookmark = %+v", text)
	}
	if photo.Type != domain.TypePhoto || len(photo.Assets) != 1 || photo.Assets[0].RelativePath != "shot.jpg" {
		t.Errorf("photo bookmark = %+v", photo)
	}

	// A second run sees nothing: failed records are not retried.
	if rep := s.SyncPending(ctx); rep.Attempted != 0 {
		t.Errorf("second run = %+v", rep)
	}
}

func TestSyncPendingInvalidRecordCounted(t *testing.T) {
	ctx := context.Background()
	log := logger.New("error", false)
	ns, err := file.Open(ctx, kv.Config{Dir: t.TempDir(), Suite: "group.test"})
	if err != nil {
		t.Fatal(err)
	}
	raw := `[
		{"id":"0190a6b2-7c1e-7000-8000-000000000001","kind":"text","title":"bad","folder":"f","typeRaw":"Quote","text":"t","url":"https://go.dev"},
		{"id":"0190a6b2-7c1e-7000-8000-000000000002","kind":"text","title":"ok","folder":"f","typeRaw":"Quote","text":"t"}
	]`
	if err := ns.Set(ctx, kv.KeyPending, []byte(raw)); err != nil {
		t.Fatal(err)
	}

	remote := &fakeRemote{}
	lib := library.New(remote, 0, log)
	s := New(pending.NewKVQueue(ns, log), remote, lib, log)

	rep := s.SyncPending(ctx)
	if rep.Attempted != 2 || rep.Failed != 1 || rep.Local != 1 {
		t.Fatalf("report = %+v", rep)
	}
	if got := pending.NewKVQueue(ns, log).Load(ctx); len(got) != 0 {
		t.Errorf("queue should be drained, has %d records", len(got))
	}
}

// appendingSaver queues one more record while the first save is in flight.
type appendingSaver struct {
	*fakeRemote
	queue pending.Queue
	late  domain.PendingBookmarkPayload
	done  bool
}

func (a *appendingSaver) AnalyzeAndSaveBookmark(ctx context.Context, url string, title, note *string) (domain.SavedBookmark, error) {
	if !a.done {
		a.done = true
		if err := a.queue.Append(ctx, a.late); err != nil {
			return domain.SavedBookmark{}, err
		}
	}
	return a.fakeRemote.AnalyzeAndSaveBookmark(ctx, url, title, note)
}

func TestSyncPendingKeepsRecordsQueuedDuringDrain(t *testing.T) {
	ctx := context.Background()
	log := logger.New("error", false)
	ns, err := file.Open(ctx, kv.Config{Dir: t.TempDir(), Suite: "group.test"})
	if err != nil {
		t.Fatal(err)
	}
	queues := map[string]pending.Queue{
		"spool": newQueue(t),
		"kv":    pending.NewKVQueue(ns, log),
	}

	for name, q := range queues {
		t.Run(name, func(t *testing.T) {
			remote := &fakeRemote{}
			saver := &appendingSaver{
				fakeRemote: remote,
				queue:      q,
				late:       domain.NewURLPayload("Late", "Bookmarks", "Article", "https://late.example"),
			}
			s := New(q, saver, library.New(remote, 0, log), log)

			if err := q.Append(ctx, domain.NewURLPayload("Go", "Bookmarks", "Article", "https://go.dev")); err != nil {
				t.Fatal(err)
			}

			if rep := s.SyncPending(ctx); rep.Attempted != 1 || rep.Saved != 1 {
				t.Fatalf("first run = %+v", rep)
			}
			left := q.Load(ctx)
			if len(left) != 1 || left[0].ID != saver.late.ID {
				t.Fatalf("queue after first run = %+v, want only the late record", left)
			}

			if rep := s.SyncPending(ctx); rep.Attempted != 1 || rep.Saved != 1 {
				t.Fatalf("second run = %+v", rep)
			}
			want := []string{"https://go.dev|Go", "https://late.example|Late"}
			if len(remote.calls) != 2 || remote.calls[0] != want[0] || remote.calls[1] != want[1] {
				t.Errorf("calls = %v, want %v", remote.calls, want)
			}
		})
	}
}

func TestLocalBookmark(t *testing.T) {
	p := domain.NewTextPayload("Note", "Inbox", "nonsense", "hello")
	b := LocalBookmark(p)
	if b.Type != domain.TypeOther {
		t.Errorf("type = %s, want Other", b.Type)
	}
	if b.EstimatedReadTime != 5 || b.EstimatedSkimTime != 1 {
		t.Errorf("estimates = %d/%d", b.EstimatedReadTime, b.EstimatedSkimTime)
	}
	if !b.SavedDate.Equal(p.CreatedAt) {
		t.Errorf("SavedDate = %v, want %v", b.SavedDate, p.CreatedAt)
	}
}
