package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const MaxUploadSize = 200 * 1024 * 1024 // 200MB

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file too large")
	ErrMediaProcessing   = errors.New("media processing failed")
)

var supportedExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
}

// Store persists uploaded videos under a working directory with
// randomized names so concurrent sessions never collide.
type Store struct {
	uploadPath string
}

func NewStore(uploadPath string) *Store {
	return &Store{uploadPath: uploadPath}
}

// Save validates an upload and writes it to a freshly generated unique
// filename. The size is the declared upload size; a reader that yields
// more than MaxUploadSize bytes is rejected as well.
func (s *Store) Save(r io.Reader, filename string, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !supportedExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if size > MaxUploadSize {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, size, MaxUploadSize)
	}

	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	dst := filepath.Join(s.uploadPath, uuid.New().String()+ext)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if n > MaxUploadSize {
		os.Remove(dst)
		return "", fmt.Errorf("%w: upload exceeded %d bytes", ErrFileTooLarge, MaxUploadSize)
	}

	return dst, nil
}
