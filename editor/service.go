package editor

import (
	"cmp"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/genconf/genconf/schema"
)

// Error is a request failure carrying the HTTP status it maps to. The
// Detail strings are matched by the frontend and must stay stable.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

func errf(status int, format string, args ...any) *Error {
	return &Error{Status: status, Detail: fmt.Sprintf(format, args...)}
}

// FileInfo describes one directory entry in listing responses. Size is
// null for directories; Mtime is seconds since the epoch.
type FileInfo struct {
	Name  string  `json:"name"`
	IsDir bool    `json:"is_dir"`
	Path  string  `json:"path"`
	Size  *int64  `json:"size"`
	Mtime float64 `json:"mtime"`
}

// Service performs file operations confined to a root directory.
type Service struct {
	fs   afero.Fs
	root string
}

// NewService returns a Service rooted at root, creating the directory
// when it does not exist yet.
func NewService(fsys afero.Fs, root string) (*Service, error) {
	root = filepath.Clean(root)

	if err := fsys.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create root %q: %w", root, err)
	}

	return &Service{fs: fsys, root: root}, nil
}

// resolve maps an API path onto the filesystem. Leading slashes are
// stripped so every request path is relative to the root; anything that
// still escapes it is refused.
func (s *Service) resolve(rel string) (string, error) {
	rel = strings.TrimPrefix(rel, "/")

	p := filepath.Clean(filepath.Join(s.root, filepath.FromSlash(rel)))
	if !s.contains(p) {
		return "", errf(http.StatusForbidden, "Access denied: Path outside root directory")
	}

	return p, nil
}

func (s *Service) contains(p string) bool {
	return p == s.root || strings.HasPrefix(p, s.root+string(filepath.Separator))
}

// List returns the entries of the directory at rel, directories first,
// then case-insensitively by name.
func (s *Service) List(rel string) ([]FileInfo, error) {
	dir, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}

	fi, err := s.fs.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, errf(http.StatusNotFound, "Path not found")
	case err != nil:
		return nil, err
	case !fi.IsDir():
		return nil, errf(http.StatusBadRequest, "Path is not a directory")
	}

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, err
	}

	items := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		rp, err := filepath.Rel(s.root, filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}

		item := FileInfo{
			Name:  e.Name(),
			IsDir: e.IsDir(),
			Path:  "/" + filepath.ToSlash(rp),
			Mtime: float64(e.ModTime().UnixNano()) / float64(1e9),
		}
		if !e.IsDir() {
			size := e.Size()
			item.Size = &size
		}

		items = append(items, item)
	}

	slices.SortStableFunc(items, func(a, b FileInfo) int {
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}

			return 1
		}

		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return items, nil
}

// CreateFolder creates the directory name under rel, including missing
// parents. An existing item at the target is a conflict.
func (s *Service) CreateFolder(rel, name string) error {
	dir, err := s.resolve(rel + "/" + name)
	if err != nil {
		return err
	}

	if ok, err := afero.Exists(s.fs, dir); err != nil {
		return err
	} else if ok {
		return errf(http.StatusConflict, "Folder already exists")
	}

	return s.fs.MkdirAll(dir, 0o755)
}

// SaveFile writes content to the file at rel, overwriting any previous
// content. The parent directory must already exist. Schema documents are
// validated first; content that is not valid JSON is saved untouched so
// drafts survive.
func (s *Service) SaveFile(rel, content string) error {
	p, err := s.resolve(rel)
	if err != nil {
		return err
	}

	if ok, err := afero.Exists(s.fs, filepath.Dir(p)); err != nil {
		return err
	} else if !ok {
		return errf(http.StatusNotFound, "Parent directory does not exist")
	}

	if err := validateDocument(p, content); err != nil {
		return err
	}

	return afero.WriteFile(s.fs, p, []byte(content), 0o644)
}

// validateDocument runs schema validation for .yml.json and .ini.json
// content. Unparseable JSON passes through.
func validateDocument(path, content string) error {
	if !strings.HasSuffix(path, ".yml.json") && !schema.IsINIDocument(path) {
		return nil
	}

	nodes, err := schema.ParseNodes([]byte(content))
	if err != nil {
		return nil
	}

	errs := schema.Validate(nodes, schema.IsINIDocument(path))
	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}

	return errf(http.StatusBadRequest, "Validation Error: %s", strings.Join(msgs, "; "))
}

// Delete removes the item at rel, recursively for directories. The root
// itself cannot be deleted.
func (s *Service) Delete(rel string) error {
	if rel == "" || rel == "/" {
		return errf(http.StatusBadRequest, "Cannot delete root directory")
	}

	p, err := s.resolve(rel)
	if err != nil {
		return err
	}

	fi, err := s.fs.Stat(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return errf(http.StatusNotFound, "Item not found")
	case err != nil:
		return err
	}

	if fi.IsDir() {
		return s.fs.RemoveAll(p)
	}

	return s.fs.Remove(p)
}

// Content returns the text content of the file at rel. Binary files are
// refused.
func (s *Service) Content(rel string) (string, error) {
	p, err := s.resolve(rel)
	if err != nil {
		return "", err
	}

	fi, err := s.fs.Stat(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "", errf(http.StatusNotFound, "File not found")
	case err != nil:
		return "", err
	case fi.IsDir():
		return "", errf(http.StatusBadRequest, "Path is a directory")
	}

	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(data) {
		return "", errf(http.StatusBadRequest, "Cannot read binary file")
	}

	return string(data), nil
}

// Rename moves the item at rel to newName within its directory. A
// newName containing separators may move the item to another directory,
// as long as it stays under the root.
func (s *Service) Rename(rel, newName string) error {
	p, err := s.resolve(rel)
	if err != nil {
		return err
	}

	if ok, err := afero.Exists(s.fs, p); err != nil {
		return err
	} else if !ok {
		return errf(http.StatusNotFound, "Item not found")
	}

	np := filepath.Clean(filepath.Join(filepath.Dir(p), filepath.FromSlash(newName)))
	if !s.contains(np) {
		return errf(http.StatusForbidden, "Access denied: Path outside root directory")
	}

	if ok, err := afero.Exists(s.fs, np); err != nil {
		return err
	} else if ok {
		return errf(http.StatusConflict, "Item with new name already exists")
	}

	return s.fs.Rename(p, np)
}
