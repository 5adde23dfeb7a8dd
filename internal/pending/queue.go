// Package pending is the handoff queue between the capture role and the app.
//
// The capture side appends one record per share; the app loads everything,
// processes it and removes what it loaded. Records appended in between stay
// queued for the next drain. Loading never fails: anything unreadable is
// logged and treated as an empty queue.
package pending

import (
	"context"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tuck/internal/domain"
)

// Queue is the pending handoff queue.
type Queue interface {
	Append(ctx context.Context, p domain.PendingBookmarkPayload) error
	Load(ctx context.Context) []domain.PendingBookmarkPayload
	// Remove drops the records with the given ids. Unknown ids are ignored.
	Remove(ctx context.Context, ids []uuid.UUID) error
	// Clear drops every record, including ones appended after the last Load.
	Clear(ctx context.Context) error
}

func idSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
