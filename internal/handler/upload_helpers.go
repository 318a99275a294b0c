package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirsasha78/AdMarketplace/internal/upload"

	"github.com/google/uuid"
)

// saveUploadedImage validates the multipart file and stores it under
// dir/subdir with a generated name, returning the stored relative path.
func saveUploadedImage(fh *multipart.FileHeader, dir, subdir string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := upload.ValidateImage(src, fh.Filename, fh.Size); err != nil {
		return "", err
	}

	target := filepath.Join(dir, subdir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name := fmt.Sprintf("%s%s", uuid.New(), ext)
	dst, err := os.Create(filepath.Join(target, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return filepath.ToSlash(filepath.Join(subdir, name)), nil
}

func isUploadValidationError(err error) bool {
	switch err {
	case upload.ErrUnsupportedExtension, upload.ErrTooLarge, upload.ErrNotAnImage:
		return true
	}
	return false
}
