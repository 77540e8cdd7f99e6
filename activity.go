package authstate

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventLoginSuccess          ActivityEventType = "auth.login.success"
	ActivityEventLoginFailure          ActivityEventType = "auth.login.failure"
	ActivityEventSessionRestored       ActivityEventType = "auth.session.restored"
	ActivityEventSessionRestoreFailure ActivityEventType = "auth.session.restore_failure"
	ActivityEventLogoutSuccess         ActivityEventType = "auth.logout.success"
	ActivityEventLogoutFailure         ActivityEventType = "auth.logout.failure"
	ActivityEventPasswordUpdated       ActivityEventType = "auth.password.updated"
	ActivityEventPasswordUpdateFailure ActivityEventType = "auth.password.update_failure"
	ActivityEventProfileUpdated        ActivityEventType = "auth.profile.updated"
	ActivityEventProfileUpdateFailure  ActivityEventType = "auth.profile.update_failure"
)

// ActivityEvent describes the outcome of a session operation.
type ActivityEvent struct {
	ID         string
	EventType  ActivityEventType
	Operation  string
	UserID     string
	Message    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}

var activityByOperation = map[string][2]ActivityEventType{
	OperationLogin:          {ActivityEventLoginSuccess, ActivityEventLoginFailure},
	OperationRestoreSession: {ActivityEventSessionRestored, ActivityEventSessionRestoreFailure},
	OperationLogout:         {ActivityEventLogoutSuccess, ActivityEventLogoutFailure},
	OperationChangePassword: {ActivityEventPasswordUpdated, ActivityEventPasswordUpdateFailure},
	OperationUpdateProfile:  {ActivityEventProfileUpdated, ActivityEventProfileUpdateFailure},
}

func activityEventType(operation string, failed bool) ActivityEventType {
	types, ok := activityByOperation[operation]
	if !ok {
		return ActivityEventType("auth." + operation)
	}
	if failed {
		return types[1]
	}
	return types[0]
}
