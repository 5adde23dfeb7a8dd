package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tuck/internal/domain"
	"github.com/MrSnakeDoc/tuck/internal/library"
	"github.com/MrSnakeDoc/tuck/internal/logger"
	"github.com/MrSnakeDoc/tuck/internal/pending"
)

// LocalSummary is the aiSummary of bookmarks built from text and asset records.
const LocalSummary = "Added from share sheet"

// Saver classifies and stores a URL on the server.
type Saver interface {
	AnalyzeAndSaveBookmark(ctx context.Context, url string, title, notes *string) (domain.SavedBookmark, error)
}

// Cache is the part of the library the sync writes to.
type Cache interface {
	EnsureFolder(name string) (domain.Folder, bool)
	AddBookmark(folderID uuid.UUID, b domain.Bookmark) error
	RefreshFolder(ctx context.Context, id uuid.UUID) error
	Refresh(ctx context.Context) error
}

// Report summarizes one SyncPending run.
type Report struct {
	Attempted int       `json:"attempted"`
	Saved     int       `json:"saved"` // url records stored remotely
	Local     int       `json:"local"` // text and asset records added to the cache
	Failed    int       `json:"failed"`
	At        time.Time `json:"at"`
}

// Syncer drains the pending queue into the server and the library.
type Syncer struct {
	queue pending.Queue
	saver Saver
	cache Cache
	log   logger.Logger

	run  sync.Mutex // one drain at a time
	mu   sync.RWMutex
	last *Report
}

func New(queue pending.Queue, saver Saver, cache Cache, log logger.Logger) *Syncer {
	return &Syncer{queue: queue, saver: saver, cache: cache, log: log}
}

// SyncPending processes every queued record once and then removes those
// records, whether or not they made it. Records queued during the drain wait
// for the next one. Record errors are logged and counted.
func (s *Syncer) SyncPending(ctx context.Context) Report {
	s.run.Lock()
	defer s.run.Unlock()

	rep := Report{At: time.Now()}
	records := s.queue.Load(ctx)
	if len(records) == 0 {
		return rep
	}

	start := time.Now()
	for _, p := range records {
		rep.Attempted++
		local, err := s.process(ctx, p)
		switch {
		case err != nil:
			rep.Failed++
			s.log.Warn("pending record dropped",
				logger.String("id", p.ID.String()),
				logger.String("kind", string(p.Kind)),
				logger.Error(err))
		case local:
			rep.Local++
		default:
			rep.Saved++
		}
	}

	ids := make([]uuid.UUID, len(records))
	for i, p := range records {
		ids[i] = p.ID
	}
	if err := s.queue.Remove(ctx, ids); err != nil {
		s.log.Error("failed to remove drained records", logger.Error(err))
	}

	s.log.Info("pending sync complete",
		logger.Int("attempted", rep.Attempted),
		logger.Int("saved", rep.Saved),
		logger.Int("local", rep.Local),
		logger.Int("failed", rep.Failed),
		logger.Duration("duration", time.Since(start)))

	s.mu.Lock()
	s.last = &rep
	s.mu.Unlock()
	return rep
}

// LastReport is the report of the last non-empty run.
func (s *Syncer) LastReport() (Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return Report{}, false
	}
	return *s.last, true
}

// process handles one record and reports whether it stayed local.
func (s *Syncer) process(ctx context.Context, p domain.PendingBookmarkPayload) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}

	if p.Kind == domain.KindURL {
		return false, s.saveRemote(ctx, p)
	}

	f, created := s.cache.EnsureFolder(p.Folder)
	if created {
		s.log.Debug("created local folder", logger.String("folder", p.Folder))
	}
	if err := s.cache.AddBookmark(f.ID, LocalBookmark(p)); err != nil {
		return true, fmt.Errorf("add to %q: %w", p.Folder, err)
	}
	return true, nil
}

func (s *Syncer) saveRemote(ctx context.Context, p domain.PendingBookmarkPayload) error {
	title := p.Title
	saved, err := s.saver.AnalyzeAndSaveBookmark(ctx, *p.URL, &title, nil)
	if err != nil {
		return fmt.Errorf("smart save: %w", err)
	}

	if saved.Folder == nil {
		return nil
	}
	err = s.cache.RefreshFolder(ctx, saved.Folder.ID)
	if errors.Is(err, library.ErrFolderNotFound) {
		// The server put it in a folder the cache has not seen yet.
		err = s.cache.Refresh(ctx)
	}
	if err != nil {
		s.log.Warn("library refresh after smart save failed",
			logger.String("folder_id", saved.Folder.ID.String()),
			logger.Error(err))
	}
	return nil
}

// LocalBookmark builds the cache entry for a text or asset record.
func LocalBookmark(p domain.PendingBookmarkPayload) domain.Bookmark {
	t := domain.ParseBookmarkType(p.TypeRaw)
	b := domain.NewBookmark(p.Title, t)
	b.AISummary = LocalSummary
	b.EstimatedReadTime = domain.EstimateReadTime(t)
	b.EstimatedSkimTime = domain.EstimateSkimTime(t)
	if !p.CreatedAt.IsZero() {
		b.SavedDate = p.CreatedAt
	}
	if p.URL != nil {
		u := *p.URL
		b.URL = &u
	}
	if p.Text != nil {
		q := *p.Text
		b.KeyQuote = &q
	}
	if a, ok := p.Asset(); ok {
		b.Assets = []domain.BookmarkAsset{a}
	}
	return b
}
