package library

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/tuck/internal/domain"
	"github.com/MrSnakeDoc/tuck/internal/logger"
)

// DefaultFanOut bounds the concurrent bookmark fetches of one Refresh.
const DefaultFanOut = 4

// StaleLimit is the number of bookmarks Stale returns at most.
const StaleLimit = 5

// Source is the remote side of the cache.
type Source interface {
	GetFolders(ctx context.Context) ([]domain.Folder, error)
	GetBookmarks(ctx context.Context, folderID *uuid.UUID) ([]domain.Bookmark, error)
}

// Library holds the folders and their bookmarks in memory.
// Folder order is the order the server returned, local folders appended.
type Library struct {
	mu          sync.RWMutex
	src         Source
	log         logger.Logger
	fanOut      int
	folders     []domain.Folder
	local       map[uuid.UUID]struct{} // folders created by EnsureFolder or CopyFolder
	added       map[uuid.UUID]struct{} // bookmarks added by AddBookmark, until the server returns them
	lastRefresh time.Time
}

// New creates an empty library. fanOut <= 0 means DefaultFanOut.
func New(src Source, fanOut int, log logger.Logger) *Library {
	if fanOut <= 0 {
		fanOut = DefaultFanOut
	}
	return &Library{
		src:    src,
		log:    log,
		fanOut: fanOut,
		local:  map[uuid.UUID]struct{}{},
		added:  map[uuid.UUID]struct{}{},
	}
}

// Refresh reloads every folder and its bookmarks. A folder whose bookmarks
// cannot be fetched is kept with an empty list. The cache is replaced only
// once all fetches are done. Local folders the server does not know survive,
// and so do bookmarks added locally to server folders.
func (l *Library) Refresh(ctx context.Context) error {
	folders, err := l.src.GetFolders(ctx)
	if err != nil {
		return fmt.Errorf("get folders: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.fanOut)
	for i := range folders {
		id := folders[i].ID
		g.Go(func() error {
			bms, err := l.src.GetBookmarks(gctx, &id)
			if err != nil {
				l.log.Warn("failed to load folder bookmarks",
					logger.String("folder_id", id.String()),
					logger.Error(err))
				bms = []domain.Bookmark{}
			}
			folders[i].Bookmarks = bms
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	remote := make(map[uuid.UUID]int, len(folders))
	for i, f := range folders {
		remote[f.ID] = i
	}
	for _, f := range l.folders {
		if i, ok := remote[f.ID]; ok {
			delete(l.local, f.ID)
			folders[i].Bookmarks = l.keepAdded(folders[i].Bookmarks, f.Bookmarks)
			continue
		}
		if _, ok := l.local[f.ID]; ok {
			folders = append(folders, f)
			continue
		}
		// The server dropped the folder; keep it while it holds local bookmarks.
		if kept := l.keepAdded(nil, f.Bookmarks); len(kept) > 0 {
			f.Bookmarks = kept
			folders = append(folders, f)
			l.local[f.ID] = struct{}{}
		}
	}
	l.folders = folders
	l.lastRefresh = time.Now()
	l.mu.Unlock()

	l.log.Debug("library refreshed", logger.Int("folders", len(folders)))
	return nil
}

// RefreshFolder reloads the bookmarks of one cached folder.
func (l *Library) RefreshFolder(ctx context.Context, id uuid.UUID) error {
	bms, err := l.src.GetBookmarks(ctx, &id)
	if err != nil {
		return fmt.Errorf("get bookmarks of %s: %w", id, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrFolderNotFound, id)
	}
	l.folders[i].Bookmarks = l.keepAdded(bms, l.folders[i].Bookmarks)
	return nil
}

// keepAdded appends to fresh the locally added bookmarks of old that fresh
// does not contain. Bookmarks the server now returns stop being tracked.
// Callers hold l.mu.
func (l *Library) keepAdded(fresh, old []domain.Bookmark) []domain.Bookmark {
	seen := make(map[uuid.UUID]struct{}, len(fresh))
	for _, b := range fresh {
		seen[b.ID] = struct{}{}
	}
	for _, b := range old {
		if _, ok := l.added[b.ID]; !ok {
			continue
		}
		if _, ok := seen[b.ID]; ok {
			delete(l.added, b.ID)
			continue
		}
		fresh = append(fresh, b)
	}
	return fresh
}

// Folders returns a copy of the cached folders.
func (l *Library) Folders() []domain.Folder {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Folder, len(l.folders))
	for i, f := range l.folders {
		out[i] = cloneFolder(f)
	}
	return out
}

// Folder looks a folder up by id.
func (l *Library) Folder(id uuid.UUID) (domain.Folder, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i := l.indexOf(id); i >= 0 {
		return cloneFolder(l.folders[i]), true
	}
	return domain.Folder{}, false
}

// FolderByName returns the first folder whose name equals name exactly.
func (l *Library) FolderByName(name string) (domain.Folder, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, f := range l.folders {
		if f.Name == name {
			return cloneFolder(f), true
		}
	}
	return domain.Folder{}, false
}

// EnsureFolder returns the folder named name, creating a local one when absent.
// The boolean is true when the folder was created.
func (l *Library) EnsureFolder(name string) (domain.Folder, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, f := range l.folders {
		if f.Name == name {
			return cloneFolder(f), false
		}
	}
	f := domain.NewFolder(name)
	l.folders = append(l.folders, f)
	l.local[f.ID] = struct{}{}
	return cloneFolder(f), true
}

// AddBookmark appends b to the folder with the given id.
func (l *Library) AddBookmark(folderID uuid.UUID, b domain.Bookmark) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(folderID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrFolderNotFound, folderID)
	}
	l.folders[i].Bookmarks = append(l.folders[i].Bookmarks, b)
	l.added[b.ID] = struct{}{}
	return nil
}

// RemoveBookmark deletes the bookmark from whichever folder holds it.
func (l *Library) RemoveBookmark(id uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.folders {
		bms := l.folders[i].Bookmarks
		for j := range bms {
			if bms[j].ID == id {
				l.folders[i].Bookmarks = append(bms[:j:j], bms[j+1:]...)
				delete(l.added, id)
				return true
			}
		}
	}
	return false
}

// ToggleComplete flips the completed flag of a bookmark.
func (l *Library) ToggleComplete(id uuid.UUID) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.folders {
		for j := range l.folders[i].Bookmarks {
			b := &l.folders[i].Bookmarks[j]
			if b.ID == id {
				b.IsCompleted = !b.IsCompleted
				return b.IsCompleted, nil
			}
		}
	}
	return false, fmt.Errorf("%w: %s", ErrBookmarkNotFound, id)
}

// CopyFolder duplicates a folder under a new id, crediting the original creator.
func (l *Library) CopyFolder(id uuid.UUID) (domain.Folder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return domain.Folder{}, fmt.Errorf("%w: %s", ErrFolderNotFound, id)
	}
	cp := cloneFolder(l.folders[i])
	cp.ID = uuid.New()
	cp.CreatedBy = fmt.Sprintf("You (copied from %s)", l.folders[i].CreatedBy)
	l.folders = append(l.folders, cp)
	l.local[cp.ID] = struct{}{}
	return cloneFolder(cp), nil
}

// Stale returns up to limit bookmarks not opened for domain.StaleAfter,
// in folder order.
func (l *Library) Stale(now time.Time, limit int) []domain.Bookmark {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []domain.Bookmark{}
	for _, f := range l.folders {
		for _, b := range f.Bookmarks {
			if len(out) >= limit {
				return out
			}
			if b.IsStale(now) {
				out = append(out, b)
			}
		}
	}
	return out
}

// TotalSaves is the number of cached bookmarks across all folders.
func (l *Library) TotalSaves() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, f := range l.folders {
		n += len(f.Bookmarks)
	}
	return n
}

// AssetPaths returns the media paths referenced by cached bookmarks.
func (l *Library) AssetPaths() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []string
	for _, f := range l.folders {
		for _, b := range f.Bookmarks {
			for _, a := range b.Assets {
				out = append(out, a.RelativePath)
				if a.ThumbnailRelativePath != nil {
					out = append(out, *a.ThumbnailRelativePath)
				}
			}
		}
	}
	return out
}

// LastRefresh is the time of the last successful Refresh, zero before that.
func (l *Library) LastRefresh() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastRefresh
}

func (l *Library) indexOf(id uuid.UUID) int {
	for i, f := range l.folders {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func cloneFolder(f domain.Folder) domain.Folder {
	f.Bookmarks = append([]domain.Bookmark{}, f.Bookmarks...)
	f.Collaborators = append([]string{}, f.Collaborators...)
	return f
}
