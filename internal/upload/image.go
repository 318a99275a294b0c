// Package upload validates user-supplied image files before they are stored.
package upload

import (
	"errors"
	"image"
	"io"
	"path/filepath"
	"strings"

	// Registered decoders back the genuine-image check; the extension alone
	// is never trusted.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// MaxImageSize is the upload size ceiling.
const MaxImageSize = 5 << 20 // 5 MiB

var (
	ErrUnsupportedExtension = errors.New("image must be a jpg, jpeg, png or webp file")
	ErrTooLarge             = errors.New("image size cannot exceed 5 MB")
	ErrNotAnImage           = errors.New("file is not a valid image")
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// ValidateImage checks an uploaded file in order: extension, size, and a
// full decode of the content. On success the reader is rewound to the start
// for the next consumer.
func ValidateImage(file io.ReadSeeker, filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return ErrUnsupportedExtension
	}

	if size > MaxImageSize {
		return ErrTooLarge
	}

	if _, _, err := image.Decode(file); err != nil {
		return ErrNotAnImage
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	return nil
}
