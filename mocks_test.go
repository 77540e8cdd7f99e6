package authstate_test

import (
	"context"
	"sync"

	authstate "github.com/goliatone/go-auth-state"
	"github.com/stretchr/testify/mock"
)

// MockAPI implements authstate.API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Login(ctx context.Context, payload authstate.LoginPayload) (authstate.User, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(authstate.User), args.Error(1)
}

func (m *MockAPI) Me(ctx context.Context) (authstate.User, error) {
	args := m.Called(ctx)
	return args.Get(0).(authstate.User), args.Error(1)
}

func (m *MockAPI) Logout(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockAPI) UpdatePassword(ctx context.Context, payload authstate.PasswordUpdatePayload) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

func (m *MockAPI) UpdateProfile(ctx context.Context, form authstate.ProfileForm) (string, error) {
	args := m.Called(ctx, form)
	return args.String(0), args.Error(1)
}

type recordingSink struct {
	mu     sync.Mutex
	events []authstate.ActivityEvent
}

func (r *recordingSink) Record(_ context.Context, event authstate.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingSink) Events() []authstate.ActivityEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]authstate.ActivityEvent, len(r.events))
	copy(out, r.events)
	return out
}

type logCall struct {
	level   string
	message string
	args    []any
}

type captureLogger struct {
	mu    sync.Mutex
	calls []logCall
}

func (l *captureLogger) record(level, message string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, logCall{level: level, message: message, args: args})
}

func (l *captureLogger) Debug(message string, args ...any) { l.record("debug", message, args...) }
func (l *captureLogger) Info(message string, args ...any)  { l.record("info", message, args...) }
func (l *captureLogger) Error(message string, args ...any) { l.record("error", message, args...) }

func (l *captureLogger) messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, c := range l.calls {
		if c.level == level {
			out = append(out, c.message)
		}
	}
	return out
}

// intentRecorder subscribes to a store and keeps the intent types in order.
type intentRecorder struct {
	mu    sync.Mutex
	types []authstate.IntentType
}

func recordIntents(store *authstate.Store) *intentRecorder {
	r := &intentRecorder{}
	store.Subscribe(func(_, _ authstate.SessionState, intent authstate.Intent) {
		r.mu.Lock()
		r.types = append(r.types, intent.Type())
		r.mu.Unlock()
	})
	return r
}

func (r *intentRecorder) Types() []authstate.IntentType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]authstate.IntentType, len(r.types))
	copy(out, r.types)
	return out
}
