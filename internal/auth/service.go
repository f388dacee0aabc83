// File: internal/auth/service.go
package auth

import (
	"context"
	"net/http"

	"user_access_backend/internal/common"
	"user_access_backend/internal/config"
	"user_access_backend/internal/identity"

	"go.uber.org/zap"
)

// Authenticator logs users in against the identity provider.
type Authenticator struct {
	provider            identity.Provider
	addressAttribute    string
	nationalIDAttribute string
	exposeErrorDetails  bool
	logger              *zap.Logger
}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator(provider identity.Provider, cfg *config.Config, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		provider:            provider,
		addressAttribute:    cfg.AddressAttribute,
		nationalIDAttribute: cfg.NationalIDAttribute,
		exposeErrorDetails:  cfg.ExposeErrorDetails,
		logger:              logger.Named("authenticator"),
	}
}

// Authenticate validates req, runs the password flow and returns the user's profile.
// Errors are *common.APIError values ready to be rendered.
func (a *Authenticator) Authenticate(ctx context.Context, req Request) (*Result, error) {
	if common.TrimmedEmpty(req.UserName) {
		a.logger.Warn("Login rejected: missing user name")
		return nil, common.NewAPIError(http.StatusBadRequest, MsgMissingUserName)
	}
	if common.TrimmedEmpty(req.Password) {
		a.logger.Warn("Login rejected: missing password", zap.String("user_name", req.UserName))
		return nil, common.NewAPIError(http.StatusBadRequest, MsgMissingPassword)
	}

	logger := a.logger.With(zap.String("user_name", req.UserName))
	logger.Debug("Starting password authentication")

	outcome, err := a.provider.InitiateAuth(ctx, req.UserName, req.Password)
	if err != nil {
		return nil, a.mapProviderError(logger, "initiate auth", err)
	}

	if outcome.Challenge == identity.ChallengeNewPasswordRequired {
		logger.Info("Answering NEW_PASSWORD_REQUIRED challenge")
		// The submitted password becomes the permanent one.
		outcome, err = a.provider.RespondNewPassword(ctx, req.UserName, req.Password, outcome.Session)
		if err != nil {
			return nil, a.mapProviderError(logger, "respond to challenge", err)
		}
	}

	if outcome.AccessToken == "" {
		logger.Warn("Authentication ended without an access token",
			zap.String("challenge", outcome.ChallengeName))
		return nil, common.NewAPIError(http.StatusBadRequest, MsgAuthFailed)
	}

	if claims, err := identity.ParseTokenClaims(outcome.AccessToken); err == nil {
		logger = logger.With(zap.String("sub", claims.Subject), zap.String("client_id", claims.ClientID))
	} else {
		logger.Debug("Could not read access token claims", zap.Error(err))
	}

	profile, err := a.provider.GetProfile(ctx, outcome.AccessToken)
	if err != nil {
		return nil, a.mapProviderError(logger, "get profile", err)
	}

	logger.Info("User authenticated")
	return &Result{
		Message:    MsgAuthSucceeded,
		Email:      profile.Value("email"),
		Address:    profile.Value(a.addressAttribute),
		NationalID: profile.Value(a.nationalIDAttribute),
	}, nil
}

func (a *Authenticator) mapProviderError(logger *zap.Logger, op string, err error) error {
	kind := identity.KindOf(err)
	switch kind {
	case identity.KindNotAuthorized:
		logger.Info("Authentication refused", zap.String("op", op), zap.Error(err))
		return common.ErrUnauthorized
	case identity.KindUserNotFound:
		logger.Info("Authentication for unknown user", zap.String("op", op))
		return common.NewAPIError(http.StatusNotFound, MsgUserNotFound)
	case identity.KindAccessDenied:
		logger.Error("Identity provider denied access", zap.String("op", op), zap.Error(err))
		return common.ErrForbidden
	default:
		logger.Error("Identity provider call failed", zap.String("op", op), zap.Stringer("kind", kind), zap.Error(err))
		if a.exposeErrorDetails {
			return common.ErrInternalServer.WithDetails(identity.MessageOf(err))
		}
		return common.ErrInternalServer
	}
}
