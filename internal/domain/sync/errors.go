package sync

import "errors"

// Remote call outcomes. Every error surfaced by the remote client adapter wraps
// exactly one of these, so callers can classify with errors.Is.
var (
	// ErrRemoteRateLimited indicates the remote returned HTTP 429 (transient)
	ErrRemoteRateLimited = errors.New("sync: remote rate limited")
	// ErrRemoteUnavailable indicates a 5xx or network failure (transient)
	ErrRemoteUnavailable = errors.New("sync: remote temporarily unavailable")
	// ErrRemoteRejected indicates a non-retryable 4xx or validation rejection
	ErrRemoteRejected = errors.New("sync: remote rejected request")
	// ErrRemoteAuth indicates expired or missing credentials (fatal for the run)
	ErrRemoteAuth = errors.New("sync: remote authentication failed")
	// ErrRemoteInvalidResponse indicates an unparseable remote payload
	ErrRemoteInvalidResponse = errors.New("sync: invalid remote response")
)

// Run and watermark errors
var (
	// ErrSyncAlreadyRunning indicates another run holds this entity type's claim
	ErrSyncAlreadyRunning = errors.New("sync: already running for entity type")
	// ErrInvalidEntityType indicates an unknown entity type tag
	ErrInvalidEntityType = errors.New("sync: invalid entity type")
	// ErrInvalidWindow indicates a malformed deep-sync window
	ErrInvalidWindow = errors.New("sync: invalid deep-sync window")
)

// IsTransient reports whether err is worth retrying with backoff.
func IsTransient(err error) bool {
	return errors.Is(err, ErrRemoteRateLimited) || errors.Is(err, ErrRemoteUnavailable)
}

// IsFatal reports whether err aborts the whole run: no entity type can make
// progress without valid credentials.
func IsFatal(err error) bool {
	return errors.Is(err, ErrRemoteAuth)
}
