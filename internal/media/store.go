package media

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store keeps campaign media files on local disk under a single directory.
// Saved files get a timestamped, sanitized name; callers persist the returned
// relative path on the campaign row.
type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) (*Store, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, fmt.Errorf("media directory is required")
	}
	if err := os.MkdirAll(trimmed, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}

	return &Store{dir: trimmed, now: time.Now}, nil
}

// Save writes data under a collision-safe name and returns the relative path
// to store on the campaign.
func (s *Store) Save(fileName string, data []byte) (string, error) {
	safe := sanitizeFileName(fileName)
	if safe == "" {
		return "", fmt.Errorf("media file name is required")
	}

	name := fmt.Sprintf("%d_%s", s.now().Unix(), safe)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	return name, nil
}

// Load reads a previously saved file. The base name is resolved against the
// store directory, so stored paths cannot escape it.
func (s *Store) Load(path string) (fileName string, mimeType string, data []byte, err error) {
	name := filepath.Base(strings.TrimSpace(path))
	if name == "" || name == "." {
		return "", "", nil, fmt.Errorf("media path is required")
	}

	data, err = os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to read media file: %w", err)
	}

	return name, MimeTypeForFile(name), data, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Store) Remove(path string) error {
	name := filepath.Base(strings.TrimSpace(path))
	if name == "" || name == "." {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove media file: %w", err)
	}
	return nil
}

// MimeTypeForFile maps a file name to its MIME type. Video containers are
// pinned explicitly because the send gateway refuses generic octet-stream
// payloads for them.
func MimeTypeForFile(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4":
		return "video/mp4"
	case ".avi":
		return "video/x-msvideo"
	case ".mov":
		return "video/quicktime"
	}

	if byExt := mime.TypeByExtension(filepath.Ext(name)); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

func sanitizeFileName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "." || cleaned == ".." {
		return ""
	}
	return cleaned
}
