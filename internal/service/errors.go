package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrQuoteNotFound is returned when a quote is not found
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrItemNotFound is returned when a quote item is not found
	ErrItemNotFound = errors.New("quote item not found")

	// ErrAttachmentNotFound is returned when an attachment is not found
	ErrAttachmentNotFound = errors.New("attachment not found")

	// ErrAttachmentInUse is returned when deleting an attachment still
	// referenced by a quote item
	ErrAttachmentInUse = errors.New("attachment is referenced by a quote item")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidStatus is returned when a status value is outside the enum
	ErrInvalidStatus = errors.New("invalid quote status")

	// ErrItemQuoteMismatch is returned when an item does not belong to the
	// addressed quote
	ErrItemQuoteMismatch = errors.New("item does not belong to quote")

	// ErrReorderIncomplete is returned when a reorder request does not cover
	// exactly the quote's item set
	ErrReorderIncomplete = errors.New("reorder must list each item of the quote exactly once")

	// ErrCatalogNotReady is returned when catalog-mode pricing is requested
	// before a catalog snapshot has been loaded for the team
	ErrCatalogNotReady = errors.New("catalog not loaded")

	// ErrUnknownSelection is returned when a catalog selection references a
	// kind or model that does not exist in the team's catalog
	ErrUnknownSelection = errors.New("unknown catalog selection")

	// ErrTeamAccessDenied is returned when the caller tries to write data
	// for a team outside their scope
	ErrTeamAccessDenied = errors.New("no access to team")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")
)
