package deps

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tuck/internal/domain"
	"github.com/MrSnakeDoc/tuck/internal/kv"
	"github.com/MrSnakeDoc/tuck/internal/library"
	"github.com/MrSnakeDoc/tuck/internal/logger"
	"github.com/MrSnakeDoc/tuck/internal/pending"
	"github.com/MrSnakeDoc/tuck/internal/syncer"
)

// Library is the folder cache as the control endpoints see it.
type Library interface {
	Folders() []domain.Folder
	Stale(now time.Time, limit int) []domain.Bookmark
	TotalSaves() int
	LastRefresh() time.Time
	Search(query string) []library.Hit
	ToggleComplete(id uuid.UUID) (bool, error)
	CopyFolder(id uuid.UUID) (domain.Folder, error)
}

// SyncStatus exposes the outcome of the last queue drain.
type SyncStatus interface {
	LastReport() (syncer.Report, bool)
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AllowedHosts     []string // Host headers allowed to access the server
	AllowedCIDRs     []string // callers allowed to reach the control endpoints
	TrustProxy       bool     // resolve the caller from X-Forwarded-For
	SyncBurst        int      // POST /sync bucket size
	SyncRefillPerMin int

	Namespace   kv.Namespace
	Queue       pending.Queue
	QueueKind   string
	Library     Library
	Sync        SyncStatus
	SyncTrigger chan<- struct{} // buffered; a full channel means a sync is already queued
}

// Now returns d.TimeNow() or time.Now().
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
