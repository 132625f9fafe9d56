package regkit

import "errors"

var (
	// ErrAccountExists is returned by Register when a record already
	// exists for the normalized email.
	ErrAccountExists = errors.New("account already exists")
	// ErrEmailRequired is returned when an operation receives an empty
	// email after normalization.
	ErrEmailRequired = errors.New("email required")
	// ErrPhoneRequired is returned by code operations when the phone
	// code type is used without a phone number.
	ErrPhoneRequired = errors.New("phone required for phone code type")
	// ErrInvalidCodeType is returned for a code type other than
	// CodeTypeEmail or CodeTypePhone.
	ErrInvalidCodeType = errors.New("invalid code type")
	// ErrStoreUnavailable wraps transient key-value store failures.
	// Callers may retry.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrEngineNotReady is returned when an Engine is used before Build
	// wired its dependencies.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrBuilderReused is returned when Build is called twice on the
	// same Builder.
	ErrBuilderReused = errors.New("builder already used")
)
