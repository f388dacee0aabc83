package identity

import "context"

// Provider is the managed identity service the handlers talk to.
// Every error returned is a *ProviderError.
type Provider interface {
	// InitiateAuth runs a username/password authentication.
	InitiateAuth(ctx context.Context, username, password string) (AuthOutcome, error)

	// RespondNewPassword answers a NEW_PASSWORD_REQUIRED challenge.
	RespondNewPassword(ctx context.Context, username, newPassword, session string) (AuthOutcome, error)

	// GetProfile fetches the attributes of the user owning accessToken.
	GetProfile(ctx context.Context, accessToken string) (Profile, error)

	// LookupUser checks whether username exists (admin operation).
	LookupUser(ctx context.Context, username string) Lookup

	// SignUp creates a new account.
	SignUp(ctx context.Context, in SignUpInput) (SignUpResult, error)
}
