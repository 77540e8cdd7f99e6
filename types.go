package authstate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// API is the remote user service the session operations talk to.
// Every method performs exactly one network call.
type API interface {
	Login(ctx context.Context, payload LoginPayload) (User, error)
	Me(ctx context.Context) (User, error)
	Logout(ctx context.Context) (string, error)
	UpdatePassword(ctx context.Context, payload PasswordUpdatePayload) (string, error)
	UpdateProfile(ctx context.Context, form ProfileForm) (string, error)
}

// Config holds client options
type Config interface {
	GetBaseURL() string
	GetTimeout() time.Duration
	GetUserAgent() string
	GetDebug() bool
	GetValidatePayloads() bool
	GetKeepLoadingOnUpdateFailure() bool
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Print("[ERR] AUTHSTATE " + line(msg, args...))
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Print("[INF] AUTHSTATE " + line(msg, args...))
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Print("[DBG] AUTHSTATE " + line(msg, args...))
}

type nopLogger struct{}

func (nopLogger) Error(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return nopLogger{}
}

func line(msg string, args ...any) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(msg, "\n"))
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
			continue
		}
		fmt.Fprintf(&b, " %v", args[i])
	}
	b.WriteString("\n")
	return b.String()
}
