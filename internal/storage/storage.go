// Package storage keeps doctor profile photos in S3-compatible object
// storage.
package storage

import (
	"context"
	"errors"
)

var (
	ErrEmptyFile = errors.New("file is empty")
	ErrNotImage  = errors.New("file is not an image")
	ErrForeign   = errors.New("url does not belong to this bucket")
)

type FileStorage interface {
	UploadFile(ctx context.Context, data []byte, filename string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
}
