package identity

import (
	"context"
	"errors"

	"user_access_backend/internal/config"
	"user_access_backend/internal/platform/awsclient"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// Cognito error codes with a dedicated ErrorKind.
const (
	codeNotAuthorized  = "NotAuthorizedException"
	codeUserNotFound   = "UserNotFoundException"
	codeAccessDenied   = "AccessDeniedException"
	codeUsernameExists = "UsernameExistsException"
)

// CognitoAPI is the subset of the Cognito user pool client used by CognitoProvider.
type CognitoAPI interface {
	InitiateAuth(ctx context.Context, params *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	RespondToAuthChallenge(ctx context.Context, params *cip.RespondToAuthChallengeInput, optFns ...func(*cip.Options)) (*cip.RespondToAuthChallengeOutput, error)
	GetUser(ctx context.Context, params *cip.GetUserInput, optFns ...func(*cip.Options)) (*cip.GetUserOutput, error)
	AdminGetUser(ctx context.Context, params *cip.AdminGetUserInput, optFns ...func(*cip.Options)) (*cip.AdminGetUserOutput, error)
	SignUp(ctx context.Context, params *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error)
}

// CognitoProvider implements Provider on top of a Cognito user pool.
type CognitoProvider struct {
	api        CognitoAPI
	clientID   string
	userPoolID string
	logger     *zap.Logger
}

// NewCognitoProvider creates a CognitoProvider for the app client and user pool in cfg.
func NewCognitoProvider(api CognitoAPI, cfg *config.Config, logger *zap.Logger) *CognitoProvider {
	return &CognitoProvider{
		api:        api,
		clientID:   cfg.CognitoClientID,
		userPoolID: cfg.CognitoUserPoolID,
		logger:     logger.Named("cognito"),
	}
}

// NewFromConfig creates a CognitoProvider backed by a client built from the default AWS configuration.
func NewFromConfig(cfg *config.Config, logger *zap.Logger) (*CognitoProvider, error) {
	awsCfg, err := awsclient.NewConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewCognitoProvider(awsclient.NewCognitoClient(awsCfg, cfg), cfg, logger), nil
}

func (p *CognitoProvider) InitiateAuth(ctx context.Context, username, password string) (AuthOutcome, error) {
	out, err := p.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(p.clientID),
		AuthParameters: map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return AuthOutcome{}, p.mapError("InitiateAuth", err)
	}
	return outcomeFrom(out.AuthenticationResult, out.ChallengeName, out.Session), nil
}

func (p *CognitoProvider) RespondNewPassword(ctx context.Context, username, newPassword, session string) (AuthOutcome, error) {
	out, err := p.api.RespondToAuthChallenge(ctx, &cip.RespondToAuthChallengeInput{
		ChallengeName: types.ChallengeNameTypeNewPasswordRequired,
		ClientId:      aws.String(p.clientID),
		Session:       aws.String(session),
		ChallengeResponses: map[string]string{
			"USERNAME":     username,
			"NEW_PASSWORD": newPassword,
		},
	})
	if err != nil {
		return AuthOutcome{}, p.mapError("RespondToAuthChallenge", err)
	}
	return outcomeFrom(out.AuthenticationResult, out.ChallengeName, out.Session), nil
}

func (p *CognitoProvider) GetProfile(ctx context.Context, accessToken string) (Profile, error) {
	out, err := p.api.GetUser(ctx, &cip.GetUserInput{AccessToken: aws.String(accessToken)})
	if err != nil {
		return Profile{}, p.mapError("GetUser", err)
	}
	return profileFrom(out.Username, out.UserAttributes), nil
}

func (p *CognitoProvider) LookupUser(ctx context.Context, username string) Lookup {
	out, err := p.api.AdminGetUser(ctx, &cip.AdminGetUserInput{
		UserPoolId: aws.String(p.userPoolID),
		Username:   aws.String(username),
	})
	if err != nil {
		mapped := p.mapError("AdminGetUser", err)
		if KindOf(mapped) == KindUserNotFound {
			return NotFound()
		}
		return Failed(mapped)
	}
	return Found(profileFrom(out.Username, out.UserAttributes))
}

func (p *CognitoProvider) SignUp(ctx context.Context, in SignUpInput) (SignUpResult, error) {
	attrs := make([]types.AttributeType, 0, len(in.Attributes))
	for _, a := range in.Attributes {
		attrs = append(attrs, types.AttributeType{Name: aws.String(a.Name), Value: aws.String(a.Value)})
	}

	out, err := p.api.SignUp(ctx, &cip.SignUpInput{
		ClientId:       aws.String(p.clientID),
		Username:       aws.String(in.Username),
		Password:       aws.String(in.Password),
		UserAttributes: attrs,
	})
	if err != nil {
		return SignUpResult{}, p.mapError("SignUp", err)
	}
	p.logger.Debug("User signed up", zap.String("username", in.Username), zap.Bool("confirmed", out.UserConfirmed))
	return SignUpResult{UserSub: aws.ToString(out.UserSub), Confirmed: out.UserConfirmed}, nil
}

// mapError turns an SDK error into a *ProviderError. This is the only place Cognito codes are inspected.
func (p *CognitoProvider) mapError(op string, err error) error {
	pErr := &ProviderError{Kind: KindUnknown, Message: err.Error(), Err: err}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		pErr.Code = apiErr.ErrorCode()
		pErr.Message = apiErr.ErrorMessage()
		switch pErr.Code {
		case codeNotAuthorized:
			pErr.Kind = KindNotAuthorized
		case codeUserNotFound:
			pErr.Kind = KindUserNotFound
		case codeAccessDenied:
			pErr.Kind = KindAccessDenied
		case codeUsernameExists:
			pErr.Kind = KindUsernameExists
		}
	}

	p.logger.Debug("Cognito call failed",
		zap.String("operation", op),
		zap.String("code", pErr.Code),
		zap.Stringer("kind", pErr.Kind),
		zap.Error(err),
	)
	return pErr
}

func outcomeFrom(result *types.AuthenticationResultType, challenge types.ChallengeNameType, session *string) AuthOutcome {
	outcome := AuthOutcome{
		ChallengeName: string(challenge),
		Session:       aws.ToString(session),
	}
	switch challenge {
	case "":
		outcome.Challenge = ChallengeNone
	case types.ChallengeNameTypeNewPasswordRequired:
		outcome.Challenge = ChallengeNewPasswordRequired
	default:
		outcome.Challenge = ChallengeOther
	}
	if result != nil {
		outcome.AccessToken = aws.ToString(result.AccessToken)
	}
	return outcome
}

func profileFrom(username *string, attrs []types.AttributeType) Profile {
	profile := Profile{Username: aws.ToString(username)}
	for _, a := range attrs {
		profile.Attributes = append(profile.Attributes, Attribute{Name: aws.ToString(a.Name), Value: aws.ToString(a.Value)})
	}
	return profile
}
