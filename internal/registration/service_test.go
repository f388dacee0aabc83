package registration

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"user_access_backend/internal/common"
	"user_access_backend/internal/config"
	"user_access_backend/internal/identity"
	"user_access_backend/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProvider is a mock type for identity.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) InitiateAuth(ctx context.Context, username, password string) (identity.AuthOutcome, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(identity.AuthOutcome), args.Error(1)
}

func (m *MockProvider) RespondNewPassword(ctx context.Context, username, newPassword, session string) (identity.AuthOutcome, error) {
	args := m.Called(ctx, username, newPassword, session)
	return args.Get(0).(identity.AuthOutcome), args.Error(1)
}

func (m *MockProvider) GetProfile(ctx context.Context, accessToken string) (identity.Profile, error) {
	args := m.Called(ctx, accessToken)
	return args.Get(0).(identity.Profile), args.Error(1)
}

func (m *MockProvider) LookupUser(ctx context.Context, username string) identity.Lookup {
	args := m.Called(ctx, username)
	return args.Get(0).(identity.Lookup)
}

func (m *MockProvider) SignUp(ctx context.Context, in identity.SignUpInput) (identity.SignUpResult, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(identity.SignUpResult), args.Error(1)
}

// MockNotifier is a mock type for notification.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(ctx context.Context, evt notification.Event) (string, error) {
	args := m.Called(ctx, evt)
	return args.String(0), args.Error(1)
}

func (m *MockNotifier) Subscribe(ctx context.Context, sub notification.Subscription) (string, error) {
	args := m.Called(ctx, sub)
	return args.String(0), args.Error(1)
}

// MockRecorder is a mock type for Recorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, entry *LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

const testTopic = "arn:aws:sns:us-east-1:000000000000:signups"

func testConfig() *config.Config {
	return &config.Config{
		AddressAttribute:           "custom:endereco",
		NationalIDAttribute:        "custom:cpf",
		NotificationBackend:        config.NotificationBackendSNS,
		NotificationTopic:          testTopic,
		RegistrationUsernameSource: config.UsernameSourceUserName,
	}
}

func validRequest() Request {
	return Request{
		UserName:   "maria",
		Email:      "maria@example.com",
		Password:   "Secret#123",
		NationalID: "12345678900",
		Address:    "Rua das Flores, 10",
	}
}

// callLog records the order in which the collaborators were called.
type callLog []string

func (c *callLog) add(name string) func(mock.Arguments) {
	return func(mock.Arguments) { *c = append(*c, name) }
}

type fixture struct {
	provider *MockProvider
	notifier *MockNotifier
	recorder *MockRecorder
	calls    *callLog
}

func newFixture() *fixture {
	f := &fixture{
		provider: new(MockProvider),
		notifier: new(MockNotifier),
		recorder: new(MockRecorder),
		calls:    &callLog{},
	}
	return f
}

func (f *fixture) registrar(cfg *config.Config) *Registrar {
	return NewRegistrar(f.provider, f.notifier, f.recorder, cfg, zap.NewNop())
}

func (f *fixture) expectRecord(outcome Outcome) {
	f.recorder.On("Record", mock.Anything, mock.MatchedBy(func(e *LedgerEntry) bool {
		return e.Outcome == outcome
	})).Return(nil).Once()
}

func (f *fixture) expectLookup(ctx context.Context, lookup identity.Lookup) {
	f.provider.On("LookupUser", ctx, "maria").Run(f.calls.add("lookup")).Return(lookup).Once()
}

func (f *fixture) expectSignUp(ctx context.Context, err error) {
	f.provider.On("SignUp", ctx, mock.AnythingOfType("identity.SignUpInput")).
		Run(f.calls.add("signup")).Return(identity.SignUpResult{UserSub: "sub-1"}, err).Once()
}

func (f *fixture) expectPublish(ctx context.Context, err error) {
	f.notifier.On("Publish", ctx, mock.AnythingOfType("notification.Event")).
		Run(f.calls.add("publish")).Return("msg-1", err).Once()
}

func (f *fixture) expectSubscribe(ctx context.Context, err error) {
	f.notifier.On("Subscribe", ctx, mock.AnythingOfType("notification.Subscription")).
		Run(f.calls.add("subscribe")).Return("pending confirmation", err).Once()
}

func TestRegister_Success_StepsInOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.expectLookup(ctx, identity.NotFound())
	f.expectSignUp(ctx, nil)
	f.expectPublish(ctx, nil)
	f.expectSubscribe(ctx, nil)
	f.expectRecord(OutcomeCreated)

	result, err := f.registrar(testConfig()).Register(ctx, validRequest())

	require.NoError(t, err)
	assert.Equal(t, StatusCreated, result.Status)
	assert.Equal(t, MsgCreatedAndNotify, result.Message)
	assert.Equal(t, callLog{"lookup", "signup", "publish", "subscribe"}, *f.calls)
	f.provider.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
	f.recorder.AssertExpectations(t)
}

func TestRegister_SignUpAndNotificationPayloads(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.expectLookup(ctx, identity.NotFound())
	f.provider.On("SignUp", ctx, identity.SignUpInput{
		Username: "maria",
		Password: "Secret#123",
		Attributes: []identity.Attribute{
			{Name: "email", Value: "maria@example.com"},
			{Name: "custom:cpf", Value: "12345678900"},
			{Name: "custom:endereco", Value: "Rua das Flores, 10"},
		},
	}).Return(identity.SignUpResult{UserSub: "sub-1"}, nil).Once()
	f.notifier.On("Publish", ctx, notification.Event{
		Topic:   testTopic,
		Subject: "Novo Cadastro de Usuário",
		Payload: notification.SignupPayload{
			UserName:   "maria",
			Email:      "maria@example.com",
			NationalID: "12345678900",
			Address:    "Rua das Flores, 10",
		},
	}).Return("msg-1", nil).Once()
	f.notifier.On("Subscribe", ctx, notification.Subscription{
		Topic:    testTopic,
		Protocol: "email",
		Endpoint: "maria@example.com",
	}).Return("pending confirmation", nil).Once()
	f.expectRecord(OutcomeCreated)

	_, err := f.registrar(testConfig()).Register(ctx, validRequest())

	require.NoError(t, err)
	f.provider.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestRegister_AlreadyExists(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.expectLookup(ctx, identity.Found(identity.Profile{Username: "maria"}))
	f.expectRecord(OutcomeAlreadyExists)

	result, err := f.registrar(testConfig()).Register(ctx, validRequest())

	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyExists, result.Status)
	assert.Equal(t, MsgAlreadyExists, result.Message)
	f.provider.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "Subscribe", mock.Anything, mock.Anything)
}

func TestRegister_StepFailures(t *testing.T) {
	providerErr := &identity.ProviderError{Kind: identity.KindUnknown, Code: "InvalidPasswordException", Message: "Password did not conform with policy"}

	tests := []struct {
		name        string
		setup       func(ctx context.Context, f *fixture)
		wantCalls   callLog
		wantMessage string
		wantDetails interface{}
		wantOutcome Outcome
	}{
		{
			name: "lookup fails",
			setup: func(ctx context.Context, f *fixture) {
				f.expectLookup(ctx, identity.Failed(&identity.ProviderError{Kind: identity.KindAccessDenied, Code: "AccessDeniedException", Message: "not allowed"}))
			},
			wantCalls:   callLog{"lookup"},
			wantMessage: MsgLookupFailed,
			wantDetails: "not allowed",
			wantOutcome: OutcomeLookupFailed,
		},
		{
			name: "signup fails",
			setup: func(ctx context.Context, f *fixture) {
				f.expectLookup(ctx, identity.NotFound())
				f.expectSignUp(ctx, providerErr)
			},
			wantCalls:   callLog{"lookup", "signup"},
			wantMessage: MsgSignUpFailed,
			wantDetails: "Password did not conform with policy",
			wantOutcome: OutcomeSignUpFailed,
		},
		{
			name: "publish fails",
			setup: func(ctx context.Context, f *fixture) {
				f.expectLookup(ctx, identity.NotFound())
				f.expectSignUp(ctx, nil)
				f.expectPublish(ctx, errors.New("topic does not exist"))
			},
			wantCalls:   callLog{"lookup", "signup", "publish"},
			wantMessage: MsgPublishFailed,
			wantOutcome: OutcomeNotifyFailed,
		},
		{
			name: "subscribe fails",
			setup: func(ctx context.Context, f *fixture) {
				f.expectLookup(ctx, identity.NotFound())
				f.expectSignUp(ctx, nil)
				f.expectPublish(ctx, nil)
				f.expectSubscribe(ctx, errors.New("invalid endpoint"))
			},
			wantCalls:   callLog{"lookup", "signup", "publish", "subscribe"},
			wantMessage: MsgSubscribeFailed,
			wantOutcome: OutcomeSubscribeFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture()
			tt.setup(ctx, f)
			f.expectRecord(tt.wantOutcome)

			result, err := f.registrar(testConfig()).Register(ctx, validRequest())

			assert.Nil(t, result)
			apiErr, ok := common.IsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.wantDetails, apiErr.Details)
			assert.Equal(t, tt.wantCalls, *f.calls)
			f.recorder.AssertExpectations(t)
		})
	}
}

func TestRegister_WithoutNotifier(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.expectLookup(ctx, identity.NotFound())
	f.expectSignUp(ctx, nil)
	f.expectRecord(OutcomeCreated)

	cfg := testConfig()
	cfg.NotificationBackend = config.NotificationBackendNone
	result, err := NewRegistrar(f.provider, nil, f.recorder, cfg, zap.NewNop()).Register(ctx, validRequest())

	require.NoError(t, err)
	assert.Equal(t, MsgCreated, result.Message)
	assert.Equal(t, callLog{"lookup", "signup"}, *f.calls)
}

func TestRegister_UsernameFromEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.provider.On("LookupUser", ctx, "maria@example.com").Return(identity.NotFound()).Once()
	f.provider.On("SignUp", ctx, mock.MatchedBy(func(in identity.SignUpInput) bool {
		return in.Username == "maria@example.com"
	})).Return(identity.SignUpResult{}, nil).Once()
	f.recorder.On("Record", mock.Anything, mock.Anything).Return(nil).Once()

	cfg := testConfig()
	cfg.RegistrationUsernameSource = config.UsernameSourceEmail
	req := validRequest()
	req.UserName = ""
	result, err := NewRegistrar(f.provider, nil, f.recorder, cfg, zap.NewNop()).Register(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, StatusCreated, result.Status)
	f.provider.AssertExpectations(t)
}

func TestRegister_ValidationFailure(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.Email = "not-an-email"
	req.Address = ""

	_, err := f.registrar(testConfig()).Register(context.Background(), req)

	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, MsgInvalidRequest, apiErr.Message)
	details, ok := apiErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "address")
	f.provider.AssertNotCalled(t, "LookupUser", mock.Anything, mock.Anything)
	f.recorder.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestRegister_BlankFieldsAreMissing(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.UserName = "   "
	req.Password = "\t"
	req.NationalID = " "
	req.Address = "\n"

	_, err := f.registrar(testConfig()).Register(context.Background(), req)

	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	details, ok := apiErr.Details.(map[string]string)
	require.True(t, ok)
	for _, field := range []string{"userName", "password", "nationalId", "address"} {
		assert.Equal(t, "The "+field+" field is required.", details[field])
	}
	f.provider.AssertNotCalled(t, "LookupUser", mock.Anything, mock.Anything)
	f.provider.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
}

func TestRegister_LedgerFailureDoesNotChangeResponse(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.expectLookup(ctx, identity.NotFound())
	f.expectSignUp(ctx, nil)
	f.recorder.On("Record", mock.Anything, mock.Anything).Return(errors.New("database is locked")).Once()

	result, err := NewRegistrar(f.provider, nil, f.recorder, testConfig(), zap.NewNop()).Register(ctx, validRequest())

	require.NoError(t, err)
	assert.Equal(t, StatusCreated, result.Status)
}

func TestOutcome_AccountCreated(t *testing.T) {
	assert.True(t, OutcomeCreated.AccountCreated())
	assert.True(t, OutcomeNotifyFailed.AccountCreated())
	assert.True(t, OutcomeSubscribeFailed.AccountCreated())
	assert.False(t, OutcomeAlreadyExists.AccountCreated())
	assert.False(t, OutcomeLookupFailed.AccountCreated())
	assert.False(t, OutcomeSignUpFailed.AccountCreated())
}
