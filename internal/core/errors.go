package core

// Error codes for domain errors.
const (
	ErrCodeValidation      = "validation_error"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeUnreachablePeer = "unreachable_peer"
	ErrCodeStaleSignal     = "stale_signal"
	ErrCodePersistence     = "persistence_error"
)

// CoreError wraps a code and human-readable message.
// It is reported back only to the originating connection, never broadcast.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func validationError(msg string) *CoreError {
	return &CoreError{Code: ErrCodeValidation, Message: msg}
}

func unauthorizedError(msg string) *CoreError {
	return &CoreError{Code: ErrCodeUnauthorized, Message: msg}
}

func unreachablePeerError(msg string) *CoreError {
	return &CoreError{Code: ErrCodeUnreachablePeer, Message: msg}
}

func staleSignalError(msg string) *CoreError {
	return &CoreError{Code: ErrCodeStaleSignal, Message: msg}
}

func persistenceError(msg string) *CoreError {
	return &CoreError{Code: ErrCodePersistence, Message: msg}
}
