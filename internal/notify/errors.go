package notify

// UserError is an error meant to be shown to the player as a toast. These
// are not system failures, just invalid input or a refused request.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a user-facing error. err may be nil or a sentinel
// callers can match with errors.Is.
func NewUserError(msg string, err error) *UserError {
	return &UserError{Message: msg, Err: err}
}
