package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserInactive        = errors.New("user is inactive")
	ErrEmptyBatch          = errors.New("batch requires at least one file")
	ErrEmptyPrompt         = errors.New("prompt must not be empty")
	ErrEmptyText           = errors.New("document text must not be empty")
	ErrUnknownProvider     = errors.New("unknown provider")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
)
