// Package media manages the Media directory inside the shared container.
// Assets are referenced by their path relative to that directory only.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tuck/internal/domain"
)

// DirName is the media directory name under the container root.
const DirName = "Media"

// JPEGQuality is used for images captured from raw pixels.
const JPEGQuality = 90

var (
	// ErrMissingContainer means the shared container root does not exist.
	ErrMissingContainer = errors.New("media: shared container directory does not exist")
	// ErrOutsideStore is returned for relative paths that escape the media directory.
	ErrOutsideStore = errors.New("media: path escapes media directory")
)

// Store is the media directory of one container.
type Store struct {
	dir string
}

// Open returns the store under container, creating the Media directory.
func Open(container string) (*Store, error) {
	if container == "" {
		return nil, ErrMissingContainer
	}
	info, err := os.Stat(container)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrMissingContainer, container)
	}
	dir := filepath.Join(container, DirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir is the absolute media directory.
func (s *Store) Dir() string { return s.dir }

// AbsolutePath resolves a relative asset path.
func (s *Store) AbsolutePath(rel string) (string, error) {
	if rel == "" || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %q", ErrOutsideStore, rel)
	}
	return filepath.Join(s.dir, rel), nil
}

// CopyIn copies an external file into the store.
//
// The destination is <preferredName>.<ext>, or <uuid>.<ext> when preferredName
// is empty; ext is the source extension, "dat" when it has none. An existing
// destination is replaced. uti may be empty, in which case it is derived from
// the extension.
func (s *Store) CopyIn(src, preferredName, uti string) (domain.BookmarkAsset, error) {
	ext := strings.TrimPrefix(filepath.Ext(src), ".")
	if ext == "" {
		ext = "dat"
	}
	name := preferredName
	if name == "" {
		name = uuid.NewString()
	}
	filename := name + "." + ext
	if !filepath.IsLocal(filename) || strings.ContainsRune(filename, filepath.Separator) {
		return domain.BookmarkAsset{}, fmt.Errorf("%w: %q", ErrOutsideStore, filename)
	}

	in, err := os.Open(src)
	if err != nil {
		return domain.BookmarkAsset{}, fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	if err := s.writeAtomic(filename, in); err != nil {
		return domain.BookmarkAsset{}, err
	}
	if uti == "" {
		uti = UTIForExtension(ext)
	}
	return domain.NewAsset(filename, uti, filepath.Base(src)), nil
}

// WriteBytes stores data under a fresh <uuid>.<ext> name.
func (s *Store) WriteBytes(data []byte, ext, uti, originalFilename string) (domain.BookmarkAsset, error) {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "dat"
	}
	filename := uuid.NewString() + "." + ext
	if err := s.writeAtomic(filename, bytes.NewReader(data)); err != nil {
		return domain.BookmarkAsset{}, err
	}
	if uti == "" {
		uti = UTIForExtension(ext)
	}
	if originalFilename == "" {
		originalFilename = filename
	}
	return domain.NewAsset(filename, uti, originalFilename), nil
}

// SaveJPEG encodes img at JPEGQuality under a fresh <uuid>.jpg name.
func (s *Store) SaveJPEG(img image.Image) (domain.BookmarkAsset, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return domain.BookmarkAsset{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return s.WriteBytes(buf.Bytes(), "jpg", UTIJPEG, "")
}

// File is one entry of the media directory.
type File struct {
	RelativePath string
	Size         int64
	ModTime      time.Time
}

// Files lists the regular files of the store, sorted by path.
func (s *Store) Files() ([]File, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list media dir: %w", err)
	}
	out := make([]File, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, File{RelativePath: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RelativePath < out[j].RelativePath })
	return out, nil
}

// Remove deletes an asset file. Removing a missing file is not an error.
func (s *Store) Remove(rel string) error {
	abs, err := s.AbsolutePath(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", rel, err)
	}
	return nil
}

func (s *Store) writeAtomic(filename string, r io.Reader) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filename, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, filename)); err != nil {
		return fmt.Errorf("move %s into place: %w", filename, err)
	}
	return nil
}
