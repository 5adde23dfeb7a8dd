package share

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/tuck/internal/domain"
	"github.com/MrSnakeDoc/tuck/internal/logger"
	"github.com/MrSnakeDoc/tuck/internal/media"
	"github.com/MrSnakeDoc/tuck/internal/pending"
	"github.com/MrSnakeDoc/tuck/internal/rules"
)

// DismissDelay is how long the confirmation stays up before Done fires.
const DismissDelay = 1200 * time.Millisecond

// AISortedFolder is the folder label of the record queued after a smart save.
const AISortedFolder = "AI Sorted"

var (
	ErrNoContent         = errors.New("nothing shareable in payload")
	ErrNothingToSave     = errors.New("nothing to save")
	ErrNeedsURL          = errors.New("please share a valid URL for AI sorting")
	ErrInvalidTransition = errors.New("action not allowed in current state")
	ErrEmptyFolderName   = errors.New("folder name is empty")
)

// State of a capture session.
type State int

const (
	StateIdle State = iota
	StateContentLoaded
	StateAnalyzing
	StateFolderSelected
	StateSaved
	StateCancelled
	StateFailed
)

var stateNames = [...]string{"idle", "content-loaded", "analyzing", "folder-selected", "saved", "cancelled", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further action is accepted.
func (s State) Terminal() bool { return s == StateSaved || s == StateCancelled }

// Sorter classifies and stores a URL remotely.
type Sorter interface {
	AnalyzeAndSaveBookmark(ctx context.Context, url string, title, notes *string) (domain.SavedBookmark, error)
}

// Config wires a Session.
type Config struct {
	Queue        pending.Queue
	Media        *media.Store
	Sorter       Sorter
	Rules        rules.Table
	Logger       logger.Logger
	DismissDelay time.Duration // DismissDelay when zero
}

// Session is one share: load, optionally pick a folder, then auto-sort,
// save or cancel. Failed keeps the content so the user can try again.
type Session struct {
	mu      sync.Mutex
	cfg     Config
	state   State
	content Content
	folder  string
	lastErr error
	saved   *domain.PendingBookmarkPayload

	done     chan struct{}
	doneOnce sync.Once
}

func NewSession(cfg Config) *Session {
	if cfg.DismissDelay == 0 {
		cfg.DismissDelay = DismissDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.New("error", false)
	}
	if cfg.Rules.Default.Folder == "" {
		cfg.Rules = rules.Defaults()
	}
	return &Session{cfg: cfg, done: make(chan struct{})}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Content() Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// Folder is the folder label the next Save will use.
func (s *Session) Folder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.folder
}

// Err is the error that moved the session to Failed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Saved returns the record queued by the last successful Save or AutoSort.
func (s *Session) Saved() (domain.PendingBookmarkPayload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		return domain.PendingBookmarkPayload{}, false
	}
	return *s.saved, true
}

// Done is closed DismissDelay after Saved, or right away on Cancelled.
func (s *Session) Done() <-chan struct{} { return s.done }

// Load selects the best provider and extracts its content.
func (s *Session) Load(ctx context.Context, providers []Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return s.transitionErr("load")
	}
	p, t, ok := Select(providers)
	if !ok {
		return ErrNoContent
	}
	c, err := Extract(ctx, p, t, s.cfg.Rules)
	if err != nil {
		return err
	}

	s.content = c
	s.folder = s.cfg.Rules.Default.Folder
	if c.Suggestion.Folder != "" {
		s.folder = c.Suggestion.Folder
	}
	s.state = StateContentLoaded
	s.cfg.Logger.Debug("share content loaded",
		logger.String("type", string(t)),
		logger.String("label", c.Label),
		logger.String("folder", s.folder))
	return nil
}

// SelectFolder picks a folder by name; built-in choices and new names are both accepted.
func (s *Session) SelectFolder(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyFolderName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editable() {
		return s.transitionErr("select folder")
	}
	s.folder = name
	s.state = StateFolderSelected
	return nil
}

// AutoSort sends the URL to smart sort. On success a url record in the
// AI Sorted folder is also queued so the app picks it up on next sync.
func (s *Session) AutoSort(ctx context.Context) error {
	s.mu.Lock()
	if !s.editable() {
		defer s.mu.Unlock()
		return s.transitionErr("auto sort")
	}
	if s.content.URL == "" {
		s.mu.Unlock()
		return ErrNeedsURL
	}
	if s.cfg.Sorter == nil {
		s.mu.Unlock()
		return errors.New("smart sort is not configured")
	}
	rawURL := s.content.URL
	prev := s.state
	s.state = StateAnalyzing
	s.lastErr = nil
	s.mu.Unlock()

	title := ExtractTitle(rawURL)
	_, err := s.cfg.Sorter.AnalyzeAndSaveBookmark(ctx, rawURL, &title, nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.fail(fmt.Errorf("AI sorting failed: %w", err))
		s.cfg.Logger.Warn("auto sort failed", logger.String("url", rawURL), logger.String("previous_state", prev.String()), logger.Error(err))
		return s.lastErr
	}

	p := domain.NewURLPayload(title, AISortedFolder, Capitalize(DetermineType(rawURL)), rawURL)
	if err := s.cfg.Queue.Append(ctx, p); err != nil {
		// The bookmark is already stored remotely; only the local echo is lost.
		s.cfg.Logger.Warn("failed to queue auto-sorted bookmark", logger.Error(err))
	} else {
		s.saved = &p
	}
	s.succeed()
	return nil
}

// Save queues the content without any network call.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editable() {
		return s.transitionErr("save")
	}

	p, err := s.buildPayload()
	if errors.Is(err, ErrNothingToSave) {
		return err
	}
	if err != nil {
		s.fail(err)
		return err
	}
	if err := s.cfg.Queue.Append(ctx, p); err != nil {
		s.fail(fmt.Errorf("queue bookmark: %w", err))
		return s.lastErr
	}

	s.saved = &p
	s.cfg.Logger.Info("bookmark queued",
		logger.String("kind", string(p.Kind)),
		logger.String("folder", p.Folder),
		logger.String("type", p.TypeRaw))
	s.succeed()
	return nil
}

// Cancel abandons the session.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() || s.state == StateAnalyzing {
		return s.transitionErr("cancel")
	}
	s.state = StateCancelled
	s.doneOnce.Do(func() { close(s.done) })
	return nil
}

// editable reports whether the folder, Save and AutoSort are usable.
func (s *Session) editable() bool {
	switch s.state {
	case StateContentLoaded, StateFolderSelected, StateFailed:
		return true
	}
	return false
}

func (s *Session) transitionErr(action string) error {
	return fmt.Errorf("%w: %s in %s", ErrInvalidTransition, action, s.state)
}

func (s *Session) fail(err error) {
	s.state = StateFailed
	s.lastErr = err
}

func (s *Session) succeed() {
	s.state = StateSaved
	s.lastErr = nil
	time.AfterFunc(s.cfg.DismissDelay, func() {
		s.doneOnce.Do(func() { close(s.done) })
	})
}

// typeLabel picks the bookmark type recorded with the payload.
func (s *Session) typeLabel() string {
	c := s.content
	switch {
	case c.Image != nil:
		return string(domain.TypePhoto)
	case c.URL != "":
		return Capitalize(DetermineType(c.URL))
	case c.Text != "":
		return string(domain.TypeQuote)
	default:
		return string(domain.TypeOther)
	}
}

func (s *Session) buildPayload() (domain.PendingBookmarkPayload, error) {
	c := s.content
	folder := s.folder
	typ := s.typeLabel()

	switch {
	case c.URL != "":
		return domain.NewURLPayload(ExtractTitle(c.URL), folder, typ, c.URL), nil

	case c.Image != nil:
		store, err := s.mediaStore()
		if err != nil {
			return domain.PendingBookmarkPayload{}, err
		}
		asset, err := store.SaveJPEG(c.Image)
		if err != nil {
			return domain.PendingBookmarkPayload{}, fmt.Errorf("failed to save image: %w", err)
		}
		return domain.NewAssetPayload("Photo", folder, typ, asset), nil

	case c.HasFile():
		store, err := s.mediaStore()
		if err != nil {
			return domain.PendingBookmarkPayload{}, err
		}
		var asset domain.BookmarkAsset
		if c.Path != "" {
			asset, err = store.CopyIn(c.Path, "", c.UTI)
		} else {
			asset, err = store.WriteBytes(c.Data, fileExt(c), c.UTI, c.Filename)
		}
		if err != nil {
			return domain.PendingBookmarkPayload{}, fmt.Errorf("failed to save file: %w", err)
		}
		title := c.Filename
		if title == "" && asset.OriginalFilename != nil {
			title = *asset.OriginalFilename
		}
		if title == "" {
			title = c.Label
		}
		return domain.NewAssetPayload(title, folder, typ, asset), nil

	case c.Text != "":
		return domain.NewTextPayload("Text", folder, string(domain.TypeQuote), c.Text), nil
	}
	return domain.PendingBookmarkPayload{}, ErrNothingToSave
}

func (s *Session) mediaStore() (*media.Store, error) {
	if s.cfg.Media == nil {
		return nil, media.ErrMissingContainer
	}
	return s.cfg.Media, nil
}

func fileExt(c Content) string {
	if ext := strings.TrimPrefix(filepath.Ext(c.Filename), "."); ext != "" {
		return ext
	}
	return media.ExtensionForUTI(c.UTI)
}
