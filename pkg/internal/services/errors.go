package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("permission denied")
	ErrEmptyContent       = errors.New("body or attachments are required")
	ErrInvalidReplyParent = errors.New("parent reply does not exist in this post")
	ErrAccountExists      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrCommunityExists    = errors.New("community name already exists")
	ErrNotCommunityOwner  = errors.New("only the creator can delete this community")
	ErrInvalidRecipient   = errors.New("invalid message recipient")
	ErrInvalidAttachment  = errors.New("invalid attachment")
)

// wrapQueryError turns a missing record into ErrNotFound and keeps other store errors as-is.
func wrapQueryError(err error, subject string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", subject, ErrNotFound)
	}
	return fmt.Errorf("unable to get %s: %v", subject, err)
}
