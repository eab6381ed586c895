package validator

import (
	"errors"
	"fmt"
	"strings"
)

// 5MB
const DefaultMaxImageBytes int64 = 5 * 1024 * 1024

var (
	ErrNotImage     = errors.New("uploaded file is not an image")
	ErrFileTooLarge = errors.New("file size exceeds the limit")
)

// アップロードされたファイルのメタ情報
type UploadedFile struct {
	Filename    string
	ContentType string
	Size        int64
}

// 空・image/*以外・サイズ超過を弾く
func ValidateImageFile(f UploadedFile, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if f.Size <= 0 {
		return ErrNotImage
	}
	if !strings.HasPrefix(strings.ToLower(f.ContentType), "image/") {
		return ErrNotImage
	}
	if f.Size > maxBytes {
		return fmt.Errorf("%w (%d MB)", ErrFileTooLarge, maxBytes/(1024*1024))
	}
	return nil
}
