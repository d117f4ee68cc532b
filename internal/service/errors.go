package service

import (
	"database/sql"
	"errors"
)

var (
	ErrAuth              = errors.New("unable to establish session")
	ErrInvalidAccessCode = errors.New("invalid access code")
	ErrListingNotFound   = errors.New("listing not found")
	ErrDraftValidation   = errors.New("invalid listing draft")
	ErrWriteFailed       = errors.New("listing store rejected the write")
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
