package domain

import (
	"fmt"
	"strings"
)

// FetchErrorKind classifies terminal outcomes of an outbound request.
type FetchErrorKind int

const (
	// FetchHTTPStatus: the provider answered with a non-retryable
	// non-2xx status.
	FetchHTTPStatus FetchErrorKind = iota + 1
	// FetchExhausted: retries ran out on a retryable failure.
	FetchExhausted
)

// FetchError is the terminal error of the retrying fetcher.
type FetchError struct {
	Kind     FetchErrorKind
	Status   int
	Body     string
	Attempts int
	Cause    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchHTTPStatus:
		return fmt.Sprintf("fetch: status %d: %s", e.Status, e.Body)
	case FetchExhausted:
		return fmt.Sprintf("fetch: exhausted %d attempts: %v", e.Attempts, e.Cause)
	}
	return fmt.Sprintf("fetch: %v", e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// GeocodeErrorKind classifies why a place could not be resolved.
type GeocodeErrorKind int

const (
	// GeocodeNotFound: every provider and query variant answered, but
	// none produced a result.
	GeocodeNotFound GeocodeErrorKind = iota + 1
	// GeocodeProviderFailure: no provider ever produced an answer
	// (transport-level failure across the whole chain).
	GeocodeProviderFailure
)

// GeocodeError reports a place the resolver could not turn into
// coordinates, carrying every attempted query for diagnostics.
type GeocodeError struct {
	Kind     GeocodeErrorKind
	Place    Place
	Attempts []string
	Cause    error
}

func (e *GeocodeError) Error() string {
	kind := "not found"
	if e.Kind == GeocodeProviderFailure {
		kind = "provider failure"
	}
	return fmt.Sprintf(
		"geocode %q: %s after %d attempts (%s)",
		e.Place.Raw, kind, len(e.Attempts), strings.Join(e.Attempts, "; "),
	)
}

func (e *GeocodeError) Unwrap() error { return e.Cause }

// InvalidInputError rejects a request before any network activity.
// It is the only fatal, non-degradable condition in the pipeline.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}
