// File: internal/registration/service.go
package registration

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"user_access_backend/internal/common"
	"user_access_backend/internal/config"
	"user_access_backend/internal/identity"
	"user_access_backend/internal/notification"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.uber.org/zap"
)

// Registrar creates accounts at the identity provider and announces them.
//
// The existence check and the account creation are two separate provider calls, so two
// concurrent registrations of the same user name can both pass the check; the second
// SignUp then fails with UsernameExists and is reported as a creation error.
type Registrar struct {
	provider            identity.Provider
	notifier            notification.Notifier
	recorder            Recorder
	validate            *validator.Validate
	topic               string
	usernameSource      string
	addressAttribute    string
	nationalIDAttribute string
	logger              *zap.Logger
}

// NewRegistrar creates a new Registrar. A nil notifier disables the publish and subscribe steps.
func NewRegistrar(
	provider identity.Provider,
	notifier notification.Notifier,
	recorder Recorder,
	cfg *config.Config,
	logger *zap.Logger,
) *Registrar {
	if recorder == nil {
		recorder = NopLedger{}
	}
	return &Registrar{
		provider:            provider,
		notifier:            notifier,
		recorder:            recorder,
		validate:            newValidator(),
		topic:               cfg.NotificationTopic,
		usernameSource:      cfg.RegistrationUsernameSource,
		addressAttribute:    cfg.AddressAttribute,
		nationalIDAttribute: cfg.NationalIDAttribute,
		logger:              logger.Named("registrar"),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// attempt carries one registration through the pipeline.
type attempt struct {
	req      Request
	username string
	logger   *zap.Logger
}

// stepFailure stops the pipeline with an error response.
type stepFailure struct {
	outcome Outcome
	apiErr  *common.APIError
	cause   error
}

// step is one stage of the pipeline. It returns a Result to finish early, a failure to abort,
// or neither to continue with the next stage.
type step struct {
	name string
	run  func(ctx context.Context, a *attempt) (*Result, *stepFailure)
}

func (r *Registrar) steps() []step {
	steps := []step{
		{name: "lookup", run: r.lookup},
		{name: "signup", run: r.signUp},
	}
	if r.notifier != nil {
		steps = append(steps,
			step{name: "publish", run: r.publish},
			step{name: "subscribe", run: r.subscribe},
		)
	}
	return steps
}

// Register validates req and runs lookup, signup, publish and subscribe in order, stopping at
// the first failure. Nothing is rolled back: a failure after signup leaves the account in place.
// Errors are *common.APIError values ready to be rendered.
func (r *Registrar) Register(ctx context.Context, req Request) (*Result, error) {
	if r.usernameSource == config.UsernameSourceEmail && common.TrimmedEmpty(req.UserName) {
		req.UserName = req.Email
	}
	if err := r.validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			r.logger.Warn("Registration rejected: invalid fields", zap.Error(err))
			return nil, common.NewAPIError(http.StatusBadRequest, MsgInvalidRequest).WithDetails(common.FormatValidationErrors(ve))
		}
		return nil, common.ErrBadRequest
	}

	a := &attempt{req: req, username: req.UserName}
	if r.usernameSource == config.UsernameSourceEmail {
		a.username = req.Email
	}
	a.logger = r.logger.With(zap.String("user_name", a.username))

	for _, s := range r.steps() {
		result, failure := s.run(ctx, a)
		if failure != nil {
			a.logger.Error("Registration step failed",
				zap.String("step", s.name),
				zap.String("outcome", string(failure.outcome)),
				zap.Bool("account_created", failure.outcome.AccountCreated()),
				zap.Error(failure.cause))
			r.record(ctx, a, failure.outcome, failure.cause)
			return nil, failure.apiErr
		}
		if result != nil {
			a.logger.Info("Registration finished early", zap.String("step", s.name), zap.Stringer("status", result.Status))
			r.record(ctx, a, OutcomeAlreadyExists, nil)
			return result, nil
		}
		a.logger.Debug("Registration step done", zap.String("step", s.name))
	}

	message := MsgCreated
	if r.notifier != nil {
		message = MsgCreatedAndNotify
	}
	a.logger.Info("User registered", zap.Bool("notified", r.notifier != nil))
	r.record(ctx, a, OutcomeCreated, nil)
	return &Result{Status: StatusCreated, Message: message}, nil
}

func (r *Registrar) lookup(ctx context.Context, a *attempt) (*Result, *stepFailure) {
	lookup := r.provider.LookupUser(ctx, a.username)
	switch lookup.Status {
	case identity.LookupFound:
		return &Result{Status: StatusAlreadyExists, Message: MsgAlreadyExists}, nil
	case identity.LookupNotFound:
		return nil, nil
	default:
		return nil, &stepFailure{
			outcome: OutcomeLookupFailed,
			apiErr:  common.NewAPIError(http.StatusInternalServerError, MsgLookupFailed).WithDetails(identity.MessageOf(lookup.Err)),
			cause:   lookup.Err,
		}
	}
}

func (r *Registrar) signUp(ctx context.Context, a *attempt) (*Result, *stepFailure) {
	res, err := r.provider.SignUp(ctx, identity.SignUpInput{
		Username: a.username,
		Password: a.req.Password,
		Attributes: []identity.Attribute{
			{Name: "email", Value: a.req.Email},
			{Name: r.nationalIDAttribute, Value: a.req.NationalID},
			{Name: r.addressAttribute, Value: a.req.Address},
		},
	})
	if err != nil {
		return nil, &stepFailure{
			outcome: OutcomeSignUpFailed,
			apiErr:  common.NewAPIError(http.StatusInternalServerError, MsgSignUpFailed).WithDetails(identity.MessageOf(err)),
			cause:   err,
		}
	}
	a.logger.Info("Account created", zap.String("user_sub", res.UserSub), zap.Bool("confirmed", res.Confirmed))
	return nil, nil
}

func (r *Registrar) publish(ctx context.Context, a *attempt) (*Result, *stepFailure) {
	messageID, err := r.notifier.Publish(ctx, notification.Event{
		Topic:   r.topic,
		Subject: notification.SignupSubject,
		Payload: notification.SignupPayload{
			UserName:   a.req.UserName,
			Email:      a.req.Email,
			NationalID: a.req.NationalID,
			Address:    a.req.Address,
		},
	})
	if err != nil {
		return nil, &stepFailure{
			outcome: OutcomeNotifyFailed,
			apiErr:  common.NewAPIError(http.StatusInternalServerError, MsgPublishFailed),
			cause:   err,
		}
	}
	a.logger.Debug("Signup notification published", zap.String("message_id", messageID))
	return nil, nil
}

func (r *Registrar) subscribe(ctx context.Context, a *attempt) (*Result, *stepFailure) {
	subscriptionID, err := r.notifier.Subscribe(ctx, notification.Subscription{
		Topic:    r.topic,
		Protocol: notification.ProtocolEmail,
		Endpoint: a.req.Email,
	})
	if err != nil {
		return nil, &stepFailure{
			outcome: OutcomeSubscribeFailed,
			apiErr:  common.NewAPIError(http.StatusInternalServerError, MsgSubscribeFailed),
			cause:   err,
		}
	}
	a.logger.Debug("Email subscription requested", zap.String("subscription", subscriptionID))
	return nil, nil
}

// record writes the attempt to the ledger. Ledger failures never change the response.
func (r *Registrar) record(ctx context.Context, a *attempt, outcome Outcome, cause error) {
	entry := &LedgerEntry{
		UserName: a.username,
		Email:    a.req.Email,
		Outcome:  outcome,
	}
	if cause != nil {
		entry.Detail = identity.MessageOf(cause)
	}
	if err := r.recorder.Record(ctx, entry); err != nil {
		a.logger.Warn("Failed to record registration attempt", zap.String("outcome", string(outcome)), zap.Error(err))
	}
}
