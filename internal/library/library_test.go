package library

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tuck/internal/domain"
	"github.com/MrSnakeDoc/tuck/internal/logger"
)

type fakeSource struct {
	folders    []domain.Folder
	bookmarks  map[uuid.UUID][]domain.Bookmark
	failing    map[uuid.UUID]bool
	foldersErr error

	mu       sync.Mutex
	inflight int
	peak     int
}

func (f *fakeSource) GetFolders(context.Context) ([]domain.Folder, error) {
	if f.foldersErr != nil {
		return nil, f.foldersErr
	}
	out := make([]domain.Folder, len(f.folders))
	copy(out, f.folders)
	return out, nil
}

func (f *fakeSource) GetBookmarks(_ context.Context, id *uuid.UUID) ([]domain.Bookmark, error) {
	f.mu.Lock()
	f.inflight++
	f.peak = max(f.peak, f.inflight)
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inflight--
		f.mu.Unlock()
	}()
	time.Sleep(5 * time.Millisecond)

	if f.failing[*id] {
		return nil, errors.New("boom")
	}
	return f.bookmarks[*id], nil
}

func bookmark(title string, saved time.Time) domain.Bookmark {
	b := domain.NewBookmark(title, domain.TypeArticle)
	b.SavedDate = saved
	return b
}

func newFixture(n int) (*fakeSource, []domain.Folder) {
	src := &fakeSource{bookmarks: map[uuid.UUID][]domain.Bookmark{}, failing: map[uuid.UUID]bool{}}
	for range n {
		src.folders = append(src.folders, domain.NewFolder("f"))
	}
	return src, src.folders
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	src, folders := newFixture(3)
	folders[0].Name, folders[1].Name, folders[2].Name = "Read", "Watch", "Broken"
	src.folders = folders
	now := time.Now()
	src.bookmarks[folders[0].ID] = []domain.Bookmark{bookmark("a", now), bookmark("b", now)}
	src.bookmarks[folders[1].ID] = []domain.Bookmark{bookmark("c", now)}
	src.failing[folders[2].ID] = true

	lib := New(src, 2, logger.New("error", false))
	if err := lib.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	got := lib.Folders()
	names := []string{got[0].Name, got[1].Name, got[2].Name}
	if diff := cmp.Diff([]string{"Read", "Watch", "Broken"}, names); diff != "" {
		t.Errorf("folder order mismatch (-want +got):\n%s", diff)
	}
	if len(got[2].Bookmarks) != 0 || got[2].Bookmarks == nil {
		t.Errorf("failing folder should degrade to an empty list, got %v", got[2].Bookmarks)
	}
	if lib.TotalSaves() != 3 {
		t.Errorf("TotalSaves() = %d, want 3", lib.TotalSaves())
	}
	if lib.LastRefresh().IsZero() {
		t.Error("LastRefresh() not set")
	}
	if p := src.peak; p > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", p)
	}
}

func TestRefreshFoldersErrorKeepsCache(t *testing.T) {
	ctx := context.Background()
	src, _ := newFixture(1)
	lib := New(src, 0, logger.New("error", false))
	if err := lib.Refresh(ctx); err != nil {
		t.Fatal(err)
	}

	src.foldersErr = errors.New("down")
	if err := lib.Refresh(ctx); err == nil {
		t.Fatal("Refresh() should fail")
	}
	if len(lib.Folders()) != 1 {
		t.Error("cache should survive a failed refresh")
	}
}

func TestRefreshKeepsLocalFolders(t *testing.T) {
	ctx := context.Background()
	src, _ := newFixture(1)
	lib := New(src, 0, logger.New("error", false))
	local, _ := lib.EnsureFolder("Inbox")
	_ = lib.AddBookmark(local.ID, bookmark("x", time.Now()))

	if err := lib.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	got, ok := lib.Folder(local.ID)
	if !ok || len(got.Bookmarks) != 1 {
		t.Fatalf("local folder lost on refresh: %+v, %v", got, ok)
	}
	if n := len(lib.Folders()); n != 2 {
		t.Errorf("folders = %d, want 2", n)
	}
}

func TestRefreshKeepsBookmarksAddedToServerFolder(t *testing.T) {
	ctx := context.Background()
	src, folders := newFixture(2)
	folders[0].Name, folders[1].Name = "Bookmarks", "Gone"
	src.folders = folders
	server := bookmark("from server", time.Now())
	src.bookmarks[folders[0].ID] = []domain.Bookmark{server}

	lib := New(src, 0, logger.New("error", false))
	if err := lib.Refresh(ctx); err != nil {
		t.Fatal(err)
	}

	f, created := lib.EnsureFolder("Bookmarks")
	if created {
		t.Fatal("server folder should be reused")
	}
	photo := bookmark("photo", time.Now())
	photo.Assets = []domain.BookmarkAsset{domain.NewAsset("a.jpg", "public.jpeg", "a.jpg")}
	if err := lib.AddBookmark(f.ID, photo); err != nil {
		t.Fatal(err)
	}
	gone := bookmark("orphan", time.Now())
	if err := lib.AddBookmark(folders[1].ID, gone); err != nil {
		t.Fatal(err)
	}

	// The server drops "Gone" and does not know either local bookmark.
	src.folders = folders[:1]
	for range 2 {
		if err := lib.Refresh(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if err := lib.RefreshFolder(ctx, f.ID); err != nil {
		t.Fatal(err)
	}

	got, _ := lib.Folder(f.ID)
	var titles []string
	for _, b := range got.Bookmarks {
		titles = append(titles, b.Title)
	}
	if diff := cmp.Diff([]string{"from server", "photo"}, titles); diff != "" {
		t.Errorf("server folder bookmarks mismatch (-want +got):\n%s", diff)
	}
	if kept, ok := lib.Folder(folders[1].ID); !ok || len(kept.Bookmarks) != 1 {
		t.Errorf("dropped folder with a local bookmark = %+v, %v", kept, ok)
	}
	if diff := cmp.Diff([]string{"a.jpg"}, lib.AssetPaths()); diff != "" {
		t.Errorf("AssetPaths() mismatch (-want +got):\n%s", diff)
	}

	// Once the server returns the bookmark it is no longer duplicated.
	src.bookmarks[f.ID] = []domain.Bookmark{server, photo}
	if err := lib.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if got, _ := lib.Folder(f.ID); len(got.Bookmarks) != 2 {
		t.Errorf("bookmarks after server caught up = %d, want 2", len(got.Bookmarks))
	}
	if _, tracked := lib.added[photo.ID]; tracked {
		t.Error("photo should stop being tracked once the server has it")
	}
}

func TestEnsureAndAdd(t *testing.T) {
	lib := New(&fakeSource{}, 0, logger.New("error", false))

	f, created := lib.EnsureFolder("Inbox")
	if !created || f.Color != domain.DefaultFolderColor || f.Icon != domain.DefaultFolderIcon {
		t.Fatalf("EnsureFolder() = %+v, %v", f, created)
	}
	again, created := lib.EnsureFolder("Inbox")
	if created || again.ID != f.ID {
		t.Fatal("second EnsureFolder() should return the existing folder")
	}

	b := bookmark("x", time.Now())
	if err := lib.AddBookmark(f.ID, b); err != nil {
		t.Fatal(err)
	}
	if err := lib.AddBookmark(uuid.New(), b); !errors.Is(err, ErrFolderNotFound) {
		t.Errorf("AddBookmark(unknown) error = %v", err)
	}

	byName, ok := lib.FolderByName("Inbox")
	if !ok || len(byName.Bookmarks) != 1 {
		t.Fatalf("FolderByName() = %+v, %v", byName, ok)
	}
	if _, ok := lib.FolderByName("inbox"); ok {
		t.Error("FolderByName() must match exactly")
	}

	// Returned folders are copies.
	byName.Bookmarks[0].Title = "mutated"
	if f2, _ := lib.Folder(f.ID); f2.Bookmarks[0].Title != "x" {
		t.Error("caller mutation leaked into cache")
	}

	done, err := lib.ToggleComplete(b.ID)
	if err != nil || !done {
		t.Errorf("ToggleComplete() = %v, %v", done, err)
	}

	if !lib.RemoveBookmark(b.ID) {
		t.Fatal("RemoveBookmark() = false")
	}
	if lib.RemoveBookmark(b.ID) {
		t.Error("second RemoveBookmark() = true")
	}
	if lib.TotalSaves() != 0 {
		t.Errorf("TotalSaves() = %d", lib.TotalSaves())
	}
}

func TestCopyFolder(t *testing.T) {
	lib := New(&fakeSource{}, 0, logger.New("error", false))
	f, _ := lib.EnsureFolder("Design")
	_ = lib.AddBookmark(f.ID, bookmark("x", time.Now()))

	cp, err := lib.CopyFolder(f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if cp.ID == f.ID || cp.CreatedBy != "You (copied from You)" || len(cp.Bookmarks) != 1 {
		t.Errorf("CopyFolder() = %+v", cp)
	}
	if len(lib.Folders()) != 2 {
		t.Error("copy not appended")
	}
}

func TestStale(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-domain.StaleAfter - time.Hour)
	lib := New(&fakeSource{}, 0, logger.New("error", false))
	f, _ := lib.EnsureFolder("All")

	for range 7 {
		_ = lib.AddBookmark(f.ID, bookmark("old", old))
	}
	_ = lib.AddBookmark(f.ID, bookmark("fresh", now))
	viewed := bookmark("old but viewed", old)
	recent := now.Add(-time.Hour)
	viewed.LastViewed = &recent
	_ = lib.AddBookmark(f.ID, viewed)

	got := lib.Stale(now, StaleLimit)
	if len(got) != StaleLimit {
		t.Fatalf("Stale() returned %d, want %d", len(got), StaleLimit)
	}
	for _, b := range got {
		if b.Title != "old" {
			t.Errorf("unexpected stale bookmark %q", b.Title)
		}
	}
	if got := lib.Stale(now, 0); len(got) != 0 {
		t.Errorf("Stale(limit 0) = %d items", len(got))
	}
}

func TestAssetPaths(t *testing.T) {
	lib := New(&fakeSource{}, 0, logger.New("error", false))
	f, _ := lib.EnsureFolder("Photos")
	b := bookmark("p", time.Now())
	thumb := "t.jpg"
	a := domain.NewAsset("a.jpg", "public.jpeg", "")
	a.ThumbnailRelativePath = &thumb
	b.Assets = []domain.BookmarkAsset{a}
	_ = lib.AddBookmark(f.ID, b)

	if diff := cmp.Diff([]string{"a.jpg", "t.jpg"}, lib.AssetPaths()); diff != "" {
		t.Errorf("AssetPaths() mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch(t *testing.T) {
	lib := New(nil, 0, logger.New("error", false))
	f, _ := lib.EnsureFolder("Reading")

	add := func(title string, tags ...string) {
		b := domain.NewBookmark(title, domain.TypeArticle)
		b.Tags = tags
		if err := lib.AddBookmark(f.ID, b); err != nil {
			t.Fatal(err)
		}
	}
	add("Intro to Go", "golang")
	add("go")
	add("Rust book", "systems", "go-adjacent")
	add("Cooking")

	tests := []struct {
		query string
		want  []string
	}{
		{"", nil},
		{"   ", nil},
		{"GO", []string{"go", "Intro to Go", "Rust book"}},
		{"intro", []string{"Intro to Go"}},
		{"systems", []string{"Rust book"}},
		{"nothing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got []string
			for _, h := range lib.Search(tt.query) {
				got = append(got, h.Bookmark.Title)
				if h.Folder != "Reading" {
					t.Errorf("hit folder = %q", h.Folder)
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Search(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}
