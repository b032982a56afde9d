package errs

import (
	"errors"
	"fmt"
)

// Error kinds shared by all services; handlers map them to HTTP codes with
// errors.Is. Services wrap them with entity context via fmt.Errorf("...: %w").
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidState    = errors.New("invalid state")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrExpired         = errors.New("expired")
)

// Entity sentinels built on the kinds above.
var (
	ErrRoomNotFound        = fmt.Errorf("room %w", ErrNotFound)
	ErrParticipantNotFound = fmt.Errorf("participant %w", ErrNotFound)
	ErrInvitationNotFound  = fmt.Errorf("invitation %w", ErrNotFound)
	ErrSignalNotFound      = fmt.Errorf("signal %w", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
)
