package identity

import (
	"errors"
	"fmt"
)

// ErrorKind classifies identity provider failures. Handlers branch on it instead of on provider codes.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotAuthorized
	KindUserNotFound
	KindAccessDenied
	KindUsernameExists
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotAuthorized:
		return "not_authorized"
	case KindUserNotFound:
		return "user_not_found"
	case KindAccessDenied:
		return "access_denied"
	case KindUsernameExists:
		return "username_exists"
	default:
		return "unknown"
	}
}

// ProviderError is returned by Provider implementations for every failed call.
type ProviderError struct {
	Kind    ErrorKind
	Code    string // provider error code, empty for transport failures
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("identity provider: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("identity provider: %s", e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// KindOf extracts the ErrorKind of err, KindUnknown if err is not a ProviderError.
func KindOf(err error) ErrorKind {
	var pErr *ProviderError
	if errors.As(err, &pErr) {
		return pErr.Kind
	}
	return KindUnknown
}

// MessageOf returns the provider's message for err, or err.Error() for other errors.
func MessageOf(err error) string {
	var pErr *ProviderError
	if errors.As(err, &pErr) && pErr.Message != "" {
		return pErr.Message
	}
	return err.Error()
}

// Challenge is the intermediate state an authentication attempt can end in.
type Challenge int

const (
	ChallengeNone Challenge = iota
	ChallengeNewPasswordRequired
	ChallengeOther
)

// AuthOutcome is the result of a password authentication or a challenge response.
type AuthOutcome struct {
	AccessToken   string
	Challenge     Challenge
	ChallengeName string // raw provider name, useful for logging ChallengeOther
	Session       string
}

// Attribute is a named profile attribute stored by the provider.
type Attribute struct {
	Name  string
	Value string
}

// Profile is a user as stored by the provider.
type Profile struct {
	Username   string
	Attributes []Attribute
}

// Value returns the named attribute, nil when it is absent or empty.
func (p Profile) Value(name string) *string {
	for _, attr := range p.Attributes {
		if attr.Name == name {
			if attr.Value == "" {
				return nil
			}
			v := attr.Value
			return &v
		}
	}
	return nil
}

// LookupStatus tags a Lookup.
type LookupStatus int

const (
	LookupFound LookupStatus = iota
	LookupNotFound
	LookupFailed
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

// Lookup is the result of looking a user up: Found(profile), NotFound or Failed(err).
type Lookup struct {
	Status  LookupStatus
	Profile Profile
	Err     error
}

func Found(p Profile) Lookup {
	return Lookup{Status: LookupFound, Profile: p}
}

func NotFound() Lookup {
	return Lookup{Status: LookupNotFound}
}

func Failed(err error) Lookup {
	return Lookup{Status: LookupFailed, Err: err}
}

// SignUpInput describes an account to create.
type SignUpInput struct {
	Username   string
	Password   string
	Attributes []Attribute
}

// SignUpResult is what the provider reports for a created account.
type SignUpResult struct {
	UserSub   string
	Confirmed bool
}
