package models

import "errors"

var (
	// ErrProviderUnavailable covers timeouts, network errors and non-2xx responses.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrProviderDataInvalid covers malformed payloads, missing fields and explicit error payloads.
	ErrProviderDataInvalid = errors.New("provider returned invalid data")
	// ErrNotFound is returned when an entity is absent after its lookup chain is exhausted.
	ErrNotFound = errors.New("not found")
	// ErrAllProvidersFailed is returned by a fallback chain when no tier produced usable data.
	ErrAllProvidersFailed = errors.New("all providers failed")
	// ErrInvalidAddress is returned for malformed wallet or item addresses.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidPurchase is returned for purchase requests missing required fields.
	ErrInvalidPurchase = errors.New("invalid purchase request")
)
