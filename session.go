package authstate

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session runs the authentication operations against an API and keeps
// the outcome in a Store. Operations block until their single network
// call completes; run them in a goroutine to keep a UI responsive.
// Failures are recorded in the state, never returned.
type Session struct {
	api      API
	store    *Store
	logger   Logger
	activity ActivitySink
	validate bool
	now      func() time.Time
}

// SessionOption customizes session construction.
type SessionOption func(*Session)

// WithStore shares an existing store instead of creating a new one.
func WithStore(store *Store) SessionOption {
	return func(s *Session) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger overrides the logger used by the session.
func WithLogger(logger Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithActivitySink sets the sink used to emit operation events.
func WithActivitySink(sink ActivitySink) SessionOption {
	return func(s *Session) {
		s.activity = normalizeActivitySink(sink)
	}
}

// WithPayloadValidation validates payloads before they are sent. A
// rejected payload fails the operation without a network call.
func WithPayloadValidation(enabled bool) SessionOption {
	return func(s *Session) {
		s.validate = enabled
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) SessionOption {
	return func(s *Session) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewSession returns a session bound to api.
func NewSession(api API, opts ...SessionOption) *Session {
	if api == nil {
		panic("authstate: NewSession requires an API")
	}

	s := &Session{
		api:      api,
		logger:   defLogger{},
		activity: noopActivitySink{},
		now:      time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.store == nil {
		s.store = NewStore(WithStoreLogger(s.logger))
	}

	return s
}

// NewSessionFromConfig builds the API client and store described by cfg.
// A logger passed through opts is shared with the client and the store.
func NewSessionFromConfig(cfg Config, opts ...SessionOption) (*Session, error) {
	if cfg == nil {
		cfg = Options{}
	}

	resolved := &Session{logger: defLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(resolved)
		}
	}

	client, err := NewAPIClient(cfg,
		WithUserAgent(cfg.GetUserAgent()),
		WithClientLogger(resolved.logger),
	)
	if err != nil {
		return nil, err
	}

	store := NewStore(
		WithReducer(Reducer{KeepLoadingOnUpdateFailure: cfg.GetKeepLoadingOnUpdateFailure()}),
		WithStoreDebug(cfg.GetDebug()),
		WithStoreLogger(resolved.logger),
	)

	base := []SessionOption{
		WithStore(store),
		WithPayloadValidation(cfg.GetValidatePayloads()),
	}

	return NewSession(client, append(base, opts...)...), nil
}

// Store returns the store holding the session state.
func (s *Session) Store() *Store {
	return s.store
}

// State returns a snapshot of the session state.
func (s *Session) State() SessionState {
	return s.store.State()
}

// Login authenticates email and password.
func (s *Session) Login(ctx context.Context, email, password string) SessionState {
	s.store.Dispatch(LoginRequest{})

	payload := LoginPayload{Email: email, Password: password}
	if err := s.check(OperationLogin, payload.Validate); err != nil {
		return s.fail(ctx, OperationLogin, LoginFailed{Message: MessageFromError(err)}, err)
	}

	user, err := s.api.Login(ctx, payload)
	if err != nil {
		return s.fail(ctx, OperationLogin, LoginFailed{Message: MessageFromError(err)}, err)
	}

	return s.succeed(ctx, OperationLogin, LoginSuccess{User: user}, user.ID, "")
}

// RestoreSession loads the current user with the credentials already held,
// typically once when the application starts.
func (s *Session) RestoreSession(ctx context.Context) SessionState {
	s.store.Dispatch(LoadUserRequest{})

	user, err := s.api.Me(ctx)
	if err != nil {
		return s.fail(ctx, OperationRestoreSession, LoadUserFailed{Message: MessageFromError(err)}, err)
	}

	return s.succeed(ctx, OperationRestoreSession, LoadUserSuccess{User: user}, user.ID, "")
}

// Logout ends the session. There is no pending state for logout, the
// state only changes once the service answers.
func (s *Session) Logout(ctx context.Context) SessionState {
	userID := s.store.State().User.ID

	msg, err := s.api.Logout(ctx)
	if err != nil {
		return s.fail(ctx, OperationLogout, LogoutFailed{Message: MessageFromError(err)}, err)
	}

	return s.succeed(ctx, OperationLogout, LogoutSuccess{Message: msg}, userID, msg)
}

// ChangePassword replaces the password of the authenticated user.
func (s *Session) ChangePassword(ctx context.Context, current, next, confirm string) SessionState {
	s.store.Dispatch(UpdatePasswordRequest{})

	payload := PasswordUpdatePayload{
		CurrentPassword:    current,
		NewPassword:        next,
		ConfirmNewPassword: confirm,
	}
	if err := s.check(OperationChangePassword, payload.Validate); err != nil {
		return s.fail(ctx, OperationChangePassword, UpdatePasswordFailed{Message: MessageFromError(err)}, err)
	}

	msg, err := s.api.UpdatePassword(ctx, payload)
	if err != nil {
		return s.fail(ctx, OperationChangePassword, UpdatePasswordFailed{Message: MessageFromError(err)}, err)
	}

	return s.succeed(ctx, OperationChangePassword, UpdatePasswordSuccess{Message: msg}, s.store.State().User.ID, msg)
}

// UpdateProfile sends the profile form, attachments included.
func (s *Session) UpdateProfile(ctx context.Context, form ProfileForm) SessionState {
	s.store.Dispatch(UpdateProfileRequest{})

	if err := s.check(OperationUpdateProfile, form.Validate); err != nil {
		return s.fail(ctx, OperationUpdateProfile, UpdateProfileFailed{Message: MessageFromError(err)}, err)
	}

	msg, err := s.api.UpdateProfile(ctx, form)
	if err != nil {
		return s.fail(ctx, OperationUpdateProfile, UpdateProfileFailed{Message: MessageFromError(err)}, err)
	}

	return s.succeed(ctx, OperationUpdateProfile, UpdateProfileSuccess{Message: msg}, s.store.State().User.ID, msg)
}

// ResetProfileUpdateFlag clears the update message, error and flag.
func (s *Session) ResetProfileUpdateFlag() SessionState {
	return s.store.Dispatch(ResetUpdateFlag{})
}

// ClearErrors clears the last error.
func (s *Session) ClearErrors() SessionState {
	return s.store.Dispatch(ClearError{})
}

func (s *Session) check(operation string, validate func() error) error {
	if !s.validate || validate == nil {
		return nil
	}
	if err := validate(); err != nil {
		return invalidPayload(operation, err)
	}
	return nil
}

func (s *Session) succeed(ctx context.Context, operation string, intent Intent, userID, msg string) SessionState {
	s.store.Dispatch(intent)
	state := s.store.Dispatch(ClearError{})

	s.logger.Debug("operation succeeded", "operation", operation)
	s.record(ctx, operation, false, userID, msg, nil)

	return state
}

func (s *Session) fail(ctx context.Context, operation string, intent Intent, err error) SessionState {
	state := s.store.Dispatch(intent)

	s.logger.Info("operation failed", "operation", operation, "error", err)
	s.record(ctx, operation, true, state.User.ID, state.Error, map[string]any{
		"invalid_payload": IsInvalidPayload(err),
	})

	return state
}

func (s *Session) record(ctx context.Context, operation string, failed bool, userID, msg string, meta map[string]any) {
	event := ActivityEvent{
		ID:         uuid.NewString(),
		EventType:  activityEventType(operation, failed),
		Operation:  operation,
		UserID:     userID,
		Message:    msg,
		Metadata:   meta,
		OccurredAt: s.now().UTC(),
	}

	if err := s.activity.Record(ctx, event); err != nil {
		s.logger.Error("activity sink failed", "operation", operation, "error", err)
	}
}
