package checkout

import "errors"

var (
	// Store errors.
	ErrNoStore         = errors.New("checkout: no store configured")
	ErrStoreClosed     = errors.New("checkout: store closed")
	ErrMigrationFailed = errors.New("checkout: migration failed")
	ErrCorruptState    = errors.New("checkout: corrupt persisted state")

	// Not found errors.
	ErrSessionNotFound      = errors.New("checkout: session not found")
	ErrCartNotFound         = errors.New("checkout: cart not found")
	ErrOrderNotFound        = errors.New("checkout: order not found")
	ErrGiftCardNotFound     = errors.New("checkout: gift card not found")
	ErrAnnouncementNotFound = errors.New("checkout: announcement not found")
	ErrCampaignNotFound     = errors.New("checkout: campaign not found")

	// Sequence errors.
	ErrEmptySequence = errors.New("checkout: sequence is empty")
	ErrDuplicateStep = errors.New("checkout: duplicate step in sequence")
	ErrUnknownStep   = errors.New("checkout: step not in sequence")
	ErrForwardJump   = errors.New("checkout: can only jump to an earlier step")

	// State errors.
	ErrSessionCompleted = errors.New("checkout: session already completed")
	ErrInvalidState     = errors.New("checkout: invalid state transition")

	// Upstream errors.
	ErrUnauthorized      = errors.New("checkout: unauthorized")
	ErrInsufficientStock = errors.New("checkout: insufficient stock")
	ErrConflict          = errors.New("checkout: conflict")
	ErrUpstream          = errors.New("checkout: upstream request failed")
)
