package usecase

import (
	"errors"
)

var (
	ErrClassifierUnavailable = errors.New("classifier is not configured")
	ErrAssistantUnavailable  = errors.New("assistant is temporarily unavailable")
	ErrArchiveNotConfigured  = errors.New("export archive is not configured")
	ErrUnknownRecordKind     = errors.New("unknown record kind")
	ErrInvalidAccessCode     = errors.New("invalid access code")
	ErrAdminLoginDisabled    = errors.New("admin login is not configured")
)
