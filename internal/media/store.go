// Package media stores uploaded reply videos on the local filesystem.
package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// AllowedExtensions is the upload allow-list.
var AllowedExtensions = map[string]bool{
	"mp4":  true,
	"webm": true,
	"ogg":  true,
	"ogv":  true,
	"m4v":  true,
	"mov":  true,
}

var (
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	// storedNameRe matches names produced by Store.Save.
	storedNameRe = regexp.MustCompile(`^[0-9]{14}_[A-Za-z0-9._-]+$`)
)

// maxNameAttempts bounds the suffixes tried for one upload name.
const maxNameAttempts = 100

// ErrInvalidName is returned when a requested file name could not have been
// produced by Save.
var ErrInvalidName = errors.New("invalid media name")

// Allowed reports whether filename carries an allowed video extension.
func Allowed(filename string) bool {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return false
	}
	return AllowedExtensions[strings.ToLower(filename[i+1:])]
}

// SanitizeFilename reduces an uploaded name to a safe base name.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, "._")
	if name == "" {
		return "video"
	}
	return name
}

// Store writes uploads into a single directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates the upload directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// Dir returns the upload directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save copies the uploaded file into the store and returns its stored name,
// prefixed with the upload timestamp.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name, dst, err := s.create(s.now().Format("20060102150405") + "_" + SanitizeFilename(fh.Filename))
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return name, nil
}

// create opens a new file for base, appending _1, _2, ... before the
// extension while the name is taken.
func (s *Store) create(base string) (string, *os.File, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	name := base
	for i := 1; ; i++ {
		dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return name, dst, nil
		}
		if !errors.Is(err, os.ErrExist) || i > maxNameAttempts {
			return "", nil, fmt.Errorf("create %s: %w", name, err)
		}
		name = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Store) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Path resolves a stored name to its filesystem path.
func (s *Store) Path(name string) (string, error) {
	if !storedNameRe.MatchString(name) || strings.Contains(name, "..") {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}
