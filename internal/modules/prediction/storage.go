package prediction

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StoredName builds a collision-resistant file name from the upload time
// (microsecond precision) and the sanitized client file name.
func StoredName(now time.Time, original string) string {
	return fmt.Sprintf("%s%06d_%s", now.Format("20060102150405"), now.Nanosecond()/1000, SanitizeFilename(original))
}

// SanitizeFilename reduces a client supplied name to a safe base name made of
// ASCII letters, digits, '_', '-' and '.', keeping the extension.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Join(strings.Fields(name), "_")

	ext := filepath.Ext(name)
	stem := strings.TrimLeft(cleanName(strings.TrimSuffix(name, ext)), "._")
	ext = cleanName(ext)
	if len(ext) > 10 {
		ext = ""
	}
	if len(stem) > 100 {
		stem = stem[:100]
	}
	if stem == "" {
		stem = "upload"
	}
	return stem + ext
}

func cleanName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		}
		return -1
	}, s)
}

// DiskStore writes uploads below a base directory.
type DiskStore struct {
	baseDir string
}

func NewDiskStore(baseDir string) *DiskStore {
	return &DiskStore{baseDir: baseDir}
}

func (s *DiskStore) BaseDir() string { return s.baseDir }

// Save writes data under name and returns the name actually used. Existing
// files are never overwritten: on a name clash a random suffix is added. The
// file is synced and closed before Save returns.
func (s *DiskStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	f, err := s.create(name)
	if errors.Is(err, fs.ErrExist) {
		ext := filepath.Ext(name)
		name = strings.TrimSuffix(name, ext) + "_" + uuid.NewString()[:8] + ext
		f, err = s.create(name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	path := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to sync file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return name, nil
}

func (s *DiskStore) create(name string) (*os.File, error) {
	return os.OpenFile(filepath.Join(s.baseDir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}
