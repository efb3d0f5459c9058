package model

import (
	"github.com/pkg/errors"
)

var (
	ErrSectionNotFound  = errors.New("section not found")
	ErrRefUnparseable   = errors.New("unparseable ref")
	ErrPayloadMalformed = errors.New("malformed payload")
	ErrSyncFailed       = errors.New("sync action failed")
	ErrMailerDisabled   = errors.New("mailer is not configured")
)
