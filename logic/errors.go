package logic

import (
	"fmt"
)

// DiscoveryError means the remote instance answered, but offers no ActivityPub actor for the identity.
type DiscoveryError struct {
	Acct   string
	Reason string
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("no ActivityPub actor for %s: %s", e.Acct, e.Reason)
}

// FetchError means a remote document could not be retrieved or did not have the expected shape.
// Status is 0 when no HTTP response was received.
type FetchError struct {
	Url    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching %s: got status %d: %v", e.Url, e.Status, e.Err)
	}
	return fmt.Sprintf("fetching %s: %v", e.Url, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MediaFetchError means an avatar or header image could not be downloaded or recognized.
type MediaFetchError struct {
	Url string
	Err error
}

func (e *MediaFetchError) Error() string {
	return fmt.Sprintf("fetching media %s: %v", e.Url, e.Err)
}

func (e *MediaFetchError) Unwrap() error {
	return e.Err
}
