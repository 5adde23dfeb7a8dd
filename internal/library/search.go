package library

import (
	"sort"
	"strings"

	"github.com/MrSnakeDoc/tuck/internal/domain"
)

// Match scores. A title hit always outranks a tag hit.
const (
	ScoreExactTitle  = 100.0
	ScorePrefixTitle = 80.0
	ScoreInTitle     = 60.0
	ScorePosition    = 10.0
	ScoreTag         = 40.0
)

// Hit is one search result.
type Hit struct {
	Bookmark domain.Bookmark `json:"bookmark"`
	Folder   string          `json:"folder"`
	Score    float64         `json:"score"`
}

// Search matches query against bookmark titles and tags, ignoring case.
// An empty query matches nothing. Results are ordered by score, then by
// folder order.
func (l *Library) Search(query string) []Hit {
	q := strings.ToLower(strings.TrimSpace(query))
	hits := []Hit{}
	if q == "" {
		return hits
	}

	l.mu.RLock()
	for _, f := range l.folders {
		for _, b := range f.Bookmarks {
			if s := score(q, b); s > 0 {
				hits = append(hits, Hit{Bookmark: b, Folder: f.Name, Score: s})
			}
		}
	}
	l.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return hits
}

func score(q string, b domain.Bookmark) float64 {
	title := strings.ToLower(b.Title)
	switch {
	case title == q:
		return ScoreExactTitle
	case strings.HasPrefix(title, q):
		return ScorePrefixTitle
	case strings.Contains(title, q):
		// earlier matches rank higher
		pos := strings.Index(title, q)
		return ScoreInTitle + ScorePosition*(1-float64(pos)/float64(len(title)))
	}
	for _, tag := range b.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return ScoreTag
		}
	}
	return 0
}
