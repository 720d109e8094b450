package service

// HTTPError represents an error with an associated HTTP status code and
// optional machine-readable details for the response body.
// TODO(future): it is probably not optimal to tie service errors to HTTP layer. We should refactor this later. :)
type HTTPError struct {
	StatusCode int
	Details    any
	Wrapped    error
}

func (e HTTPError) Error() string {
	return e.Wrapped.Error()
}

func (e HTTPError) Unwrap() error {
	return e.Wrapped
}

func httpError(statusCode int, err error) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Wrapped:    err,
	}
}

func httpErrorDetails(statusCode int, details any, err error) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Details:    details,
		Wrapped:    err,
	}
}
