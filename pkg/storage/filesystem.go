package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadsPrefix is the directory under the base dir that receives uploads.
const UploadsPrefix = "uploads"

// MaxNameLength bounds the sanitized original name kept in an upload path so the
// full path fits the 255 character file_upload column.
const MaxNameLength = 150

// LocalStorage persists uploaded files on disk under a base directory.
type LocalStorage struct {
	baseDir string
	now     func() time.Time
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./media"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, now: time.Now}, nil
}

// UploadPath builds a unique, date-partitioned relative path such as
// uploads/2024/05/01/<uuid>-marks.csv for the given original file name.
func (s *LocalStorage) UploadPath(original string) string {
	name := sanitizeName(original)
	day := s.now().UTC().Format("2006/01/02")
	return path.Join(UploadsPrefix, day, uuid.NewString()+"-"+name)
}

// SaveUpload stores the stream under a fresh UploadPath and returns the relative path.
func (s *LocalStorage) SaveUpload(original string, r io.Reader) (string, error) {
	return s.SaveStream(s.UploadPath(original), r)
}

// SaveStream copies from reader into the relative path under the base dir.
func (s *LocalStorage) SaveStream(rel string, r io.Reader) (string, error) {
	target, err := s.resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("prepare upload directory: %w", err)
	}
	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(file, r); err != nil {
		file.Close() //nolint:errcheck
		_ = os.Remove(target)
		return "", fmt.Errorf("write upload stream: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return rel, nil
}

// Open returns a read-only handle for a stored file.
func (s *LocalStorage) Open(rel string) (*os.File, error) {
	target, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(target)
	if err != nil {
		return nil, fmt.Errorf("open stored file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file if present.
func (s *LocalStorage) Delete(rel string) error {
	target, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete stored file: %w", err)
	}
	return nil
}

// Path exposes the on-disk location of a stored file.
func (s *LocalStorage) Path(rel string) string {
	target, err := s.resolve(rel)
	if err != nil {
		return ""
	}
	return target
}

// resolve maps a slash-separated relative path under the base dir and refuses
// anything that would escape it.
func (s *LocalStorage) resolve(rel string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(rel))
	if clean == "/" {
		return "", fmt.Errorf("invalid storage path %q", rel)
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func sanitizeName(original string) string {
	name := filepath.Base(filepath.ToSlash(original))
	name = path.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "upload"
	}
	if len(name) > MaxNameLength {
		ext := path.Ext(name)
		if len(ext) >= MaxNameLength {
			ext = ""
		}
		name = name[:MaxNameLength-len(ext)] + ext
	}
	return name
}
