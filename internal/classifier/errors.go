package classifier

// notLoadedError signals that no inference backend is live (return 503).
type notLoadedError struct{ msg string }

func (e notLoadedError) Error() string { return e.msg }

// ErrNotLoaded constructs a notLoadedError.
func ErrNotLoaded(msg string) error {
	if msg == "" {
		msg = "model not loaded"
	}
	return notLoadedError{msg: msg}
}

// IsNotLoaded reports whether err indicates a missing inference backend.
func IsNotLoaded(err error) bool {
	_, ok := err.(notLoadedError)
	return ok
}

// badImageError signals an undecodable or missing image payload (return 400).
type badImageError struct{ msg string }

func (e badImageError) Error() string { return e.msg }

// ErrBadImage constructs a badImageError.
func ErrBadImage(msg string) error { return badImageError{msg: msg} }

// IsBadImage reports whether the error indicates an invalid image payload.
func IsBadImage(err error) bool {
	_, ok := err.(badImageError)
	return ok
}

// tooBusyError signals gate timeout for 429 mapping.
type tooBusyError struct{}

func (e tooBusyError) Error() string { return "too busy: inference gate timeout" }

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	_, ok := err.(tooBusyError)
	return ok
}

// backendUnavailableError signals a missing runtime dependency (e.g., the
// onnxruntime shared library) so callers can return 503 instead of 500.
type backendUnavailableError struct{ msg string }

func (e backendUnavailableError) Error() string { return e.msg }

// ErrBackendUnavailable constructs a backendUnavailableError.
func ErrBackendUnavailable(msg string) error { return backendUnavailableError{msg: msg} }

// IsBackendUnavailable reports whether err indicates a missing/failed runtime dependency.
func IsBackendUnavailable(err error) bool {
	_, ok := err.(backendUnavailableError)
	return ok
}
