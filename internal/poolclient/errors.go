package poolclient

import (
	"errors"
	"fmt"
)

// ErrFetch matches every *FetchError via errors.Is.
var ErrFetch = errors.New("poolclient: fetch failed")

// Service names the remote endpoint a FetchError came from.
type Service string

const (
	ServiceCandidates     Service = "candidates"
	ServiceRecommendation Service = "recommendation"
)

// FetchError reports a network or payload failure from a remote service.
type FetchError struct {
	Service Service
	URL     string
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("poolclient: %s %s: status %d: %v", e.Service, e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("poolclient: %s %s: %v", e.Service, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrFetch) succeed.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }
