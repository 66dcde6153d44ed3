package handler

import (
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"briefer/internal/config"
	"briefer/internal/domain"
)

// readUpload validates one multipart file against the upload limits and
// returns its contents.
func readUpload(header *multipart.FileHeader, cfg config.UploadConfig) ([]byte, error) {
	if header.Size > cfg.MaxFileSizeMB*1024*1024 {
		return nil, domain.ErrFileTooLarge
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}
