package store

import "errors"

// Failure taxonomy surfaced to services and handlers. Store implementations
// map constraint violations onto these so races resolve the same way the
// pre-checks do.
var (
	// ErrNotFound covers missing rows and rooms past their expiry, which
	// are indistinguishable to callers.
	ErrNotFound = errors.New("not found")

	// ErrConflict is a duplicate insert losing to a uniqueness constraint,
	// e.g. a second answer for the same (player, question) pair.
	ErrConflict = errors.New("conflict")

	// ErrCapacityExceeded is an admission beyond the game's player cap.
	ErrCapacityExceeded = errors.New("player capacity exceeded")

	// ErrInviteCodeTaken signals a collision on the active invite code
	// index; room creation retries with a fresh code.
	ErrInviteCodeTaken = errors.New("invite code taken")
)
