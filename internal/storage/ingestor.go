// Package storage implements the media ingestor: it accepts one uploaded
// file per request, stores it under a configured directory and hands back
// the generated filename as the media reference.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNoFile 请求里没有携带上传文件
var ErrNoFile = errors.New("no file uploaded")

// ErrUpload marks a failed write of the uploaded file (bad stream, disk
// full, permission denied). The router maps it to a 400, not a 500.
var ErrUpload = errors.New("upload failed")

// fieldName is the fixed multipart field identifier, also the filename prefix.
const fieldName = "image"

// Config carries the ingestor settings explicitly instead of process-wide
// mutable state.
type Config struct {
	Dir string
}

type Ingestor struct {
	dir string
}

// NewIngestor ensures the storage directory exists and returns the ingestor.
func NewIngestor(cfg Config) (*Ingestor, error) {
	if cfg.Dir == "" {
		return nil, errors.New("storage: upload dir not configured")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &Ingestor{dir: cfg.Dir}, nil
}

// Dir returns the storage directory, used for the static file mount.
func (in *Ingestor) Dir() string {
	return in.dir
}

// Ingest writes the uploaded file fully to disk and returns the generated
// filename. The file lands under a temporary name first and is renamed once
// every byte is on disk, so a name returned here never points at a partial
// write. Content type and size are deliberately not inspected.
func (in *Ingestor) Ingest(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNoFile
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("storage: %w: open upload: %v", ErrUpload, err)
	}
	defer src.Close()

	name := generateName(fh.Filename)

	tmp, err := os.CreateTemp(in.dir, "pending-")
	if err != nil {
		return "", fmt.Errorf("storage: %w: create temp file: %v", ErrUpload, err)
	}
	defer os.Remove(tmp.Name()) // no-op after successful rename

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return "", fmt.Errorf("storage: %w: write upload: %v", ErrUpload, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("storage: %w: flush upload: %v", ErrUpload, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(in.dir, name)); err != nil {
		return "", fmt.Errorf("storage: %w: commit upload: %v", ErrUpload, err)
	}
	return name, nil
}

// Remove deletes a previously ingested file, used as the compensating action
// when the post insert fails after the file was written.
func (in *Ingestor) Remove(name string) error {
	return os.Remove(filepath.Join(in.dir, filepath.Base(name)))
}

// generateName builds a collision-resistant filename: fixed field prefix,
// millisecond timestamp, random UUID component and the original extension.
// 时间戳 + 随机数组合，并发请求不会撞名。
func generateName(original string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%d-%s%s", fieldName, time.Now().UnixMilli(), random, filepath.Ext(original))
}
