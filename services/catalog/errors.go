package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidKind is returned for a content kind other than movie or series.
var ErrInvalidKind = errors.New("kind must be 'movie' or 'tv'")

// FetchError reports a non-2xx answer from the catalog API.
type FetchError struct {
	StatusCode int
	Body       string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("error fetching data: status code %d: %s", e.StatusCode, e.Body)
}

// IsAuth reports whether the catalog rejected the credential.
func (e *FetchError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsAuthError reports whether err is a catalog credential rejection.
func IsAuthError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.IsAuth()
}
