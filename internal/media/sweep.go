package media

import "time"

// Sweep removes files that are not in keep and were last modified before
// cutoff. It returns the removed relative paths. A file that fails to be
// removed is skipped and reported through the returned error.
func (s *Store) Sweep(keep map[string]struct{}, cutoff time.Time) ([]string, error) {
	files, err := s.Files()
	if err != nil {
		return nil, err
	}

	var (
		removed  []string
		firstErr error
	)
	for _, f := range files {
		if _, ok := keep[f.RelativePath]; ok {
			continue
		}
		if !f.ModTime.Before(cutoff) {
			continue
		}
		if err := s.Remove(f.RelativePath); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed = append(removed, f.RelativePath)
	}
	return removed, firstErr
}
