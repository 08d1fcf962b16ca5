package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Reasons a proof file is refused. Callers report err.Error() to the client.
var (
	ErrNoFile          = errors.New("no file provided")
	ErrExtension       = errors.New("file type not allowed")
	ErrTooLarge        = errors.New("file exceeds maximum size")
	ErrContentMismatch = errors.New("file content does not match its extension")
	ErrWrite           = errors.New("failed to store file")
)

var mimeByExt = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"pdf":  "application/pdf",
}

type Config struct {
	Dir         string
	MaxBytes    int64
	AllowedExts []string
	// MaxImageDimension bounds the longer side of stored JPEG/PNG proofs;
	// zero disables resizing.
	MaxImageDimension int
}

// ProofStore writes proof-of-need uploads into a local directory under
// collision-free names.
type ProofStore struct {
	dir      string
	maxBytes int64
	allowed  map[string]bool
	maxDim   int
	now      func() time.Time
}

func NewProofStore(cfg Config) (*ProofStore, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("proof directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create proof directory: %w", err)
	}

	allowed := make(map[string]bool, len(cfg.AllowedExts))
	for _, ext := range cfg.AllowedExts {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		if _, known := mimeByExt[ext]; known {
			allowed[ext] = true
		}
	}

	return &ProofStore{
		dir:      cfg.Dir,
		maxBytes: cfg.MaxBytes,
		allowed:  allowed,
		maxDim:   cfg.MaxImageDimension,
		now:      time.Now,
	}, nil
}

// Save validates and stores the upload, returning the stored relative path.
func (s *ProofStore) Save(filename string, r io.Reader) (string, error) {
	if filename == "" || r == nil {
		return "", ErrNoFile
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !s.allowed[ext] {
		return "", ErrExtension
	}

	data, err := s.read(r)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrNoFile
	}

	if !mimetype.Detect(data).Is(mimeByExt[ext]) {
		return "", ErrContentMismatch
	}

	if data, err = s.normalize(ext, data); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s.%s",
		s.now().Format("20060102150405"),
		strings.ReplaceAll(uuid.NewString(), "-", ""),
		ext,
	)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}

	return filepath.ToSlash(path), nil
}

func (s *ProofStore) read(r io.Reader) ([]byte, error) {
	if s.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

// normalize downscales oversized JPEG and PNG images. Other formats pass through.
func (s *ProofStore) normalize(ext string, data []byte) ([]byte, error) {
	if s.maxDim <= 0 || (ext != "jpg" && ext != "jpeg" && ext != "png") {
		return data, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrContentMismatch
	}
	if cfg.Width <= s.maxDim && cfg.Height <= s.maxDim {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrContentMismatch
	}
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, ErrExtension
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Fit(img, s.maxDim, s.maxDim, imaging.Lanczos), format); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return buf.Bytes(), nil
}
