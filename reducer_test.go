package authstate_test

import (
	"testing"

	authstate "github.com/goliatone/go-auth-state"
	"github.com/stretchr/testify/assert"
)

var (
	alice = authstate.User{
		ID:       "u-1",
		FullName: "Alice Example",
		Email:    "alice@example.com",
		Avatar:   authstate.Asset{PublicID: "avatars/1", URL: "https://cdn.example.com/1.png"},
	}

	// a state with every field set, so each transition shows what it keeps
	busy = authstate.SessionState{
		Loading:         true,
		User:            alice,
		IsAuthenticated: true,
		Error:           "previous error",
		Message:         "previous message",
		IsUpdated:       true,
	}
)

func TestReduceTransitions(t *testing.T) {
	tests := []struct {
		name     string
		state    authstate.SessionState
		intent   authstate.Intent
		expected authstate.SessionState
	}{
		{
			name:   "login request",
			state:  busy,
			intent: authstate.LoginRequest{},
			expected: authstate.SessionState{
				Loading:   true,
				Message:   "previous message",
				IsUpdated: true,
			},
		},
		{
			name:   "load user request",
			state:  busy,
			intent: authstate.LoadUserRequest{},
			expected: authstate.SessionState{
				Loading:   true,
				Message:   "previous message",
				IsUpdated: true,
			},
		},
		{
			name:   "login success",
			state:  authstate.SessionState{Loading: true, Error: "stale"},
			intent: authstate.LoginSuccess{User: alice},
			expected: authstate.SessionState{
				User:            alice,
				IsAuthenticated: true,
			},
		},
		{
			name:   "load user success",
			state:  authstate.SessionState{Loading: true, Message: "kept"},
			intent: authstate.LoadUserSuccess{User: alice},
			expected: authstate.SessionState{
				User:            alice,
				IsAuthenticated: true,
				Message:         "kept",
			},
		},
		{
			name:   "login failed",
			state:  busy,
			intent: authstate.LoginFailed{Message: "Invalid credentials"},
			expected: authstate.SessionState{
				Error:     "Invalid credentials",
				Message:   "previous message",
				IsUpdated: true,
			},
		},
		{
			name:   "load user failed",
			state:  busy,
			intent: authstate.LoadUserFailed{Message: "User not Authenticated!"},
			expected: authstate.SessionState{
				Error:     "User not Authenticated!",
				Message:   "previous message",
				IsUpdated: true,
			},
		},
		{
			name:   "logout success",
			state:  busy,
			intent: authstate.LogoutSuccess{Message: "Logged Out!"},
			expected: authstate.SessionState{
				Message:   "Logged Out!",
				IsUpdated: true,
			},
		},
		{
			name:   "logout failed keeps user",
			state:  busy,
			intent: authstate.LogoutFailed{Message: "boom"},
			expected: authstate.SessionState{
				User:            alice,
				IsAuthenticated: true,
				Error:           "boom",
				Message:         "previous message",
				IsUpdated:       true,
			},
		},
		{
			name:   "update password request",
			state:  busy,
			intent: authstate.UpdatePasswordRequest{},
			expected: authstate.SessionState{
				Loading:         true,
				User:            alice,
				IsAuthenticated: true,
			},
		},
		{
			name:   "update profile request",
			state:  busy,
			intent: authstate.UpdateProfileRequest{},
			expected: authstate.SessionState{
				Loading:         true,
				User:            alice,
				IsAuthenticated: true,
			},
		},
		{
			name:   "update password success",
			state:  authstate.SessionState{Loading: true, User: alice, IsAuthenticated: true},
			intent: authstate.UpdatePasswordSuccess{Message: "Password Updated!"},
			expected: authstate.SessionState{
				User:            alice,
				IsAuthenticated: true,
				Message:         "Password Updated!",
				IsUpdated:       true,
			},
		},
		{
			name:   "update profile success",
			state:  authstate.SessionState{Loading: true, User: alice, IsAuthenticated: true},
			intent: authstate.UpdateProfileSuccess{Message: "Profile Updated!"},
			expected: authstate.SessionState{
				User:            alice,
				IsAuthenticated: true,
				Message:         "Profile Updated!",
				IsUpdated:       true,
			},
		},
		{
			name:   "update password failed clears loading",
			state:  busy,
			intent: authstate.UpdatePasswordFailed{Message: "Incorrect Current Password!"},
			expected: authstate.SessionState{
				User:            alice,
				IsAuthenticated: true,
				Error:           "Incorrect Current Password!",
			},
		},
		{
			name:   "update profile failed clears loading",
			state:  busy,
			intent: authstate.UpdateProfileFailed{Message: "too large"},
			expected: authstate.SessionState{
				User:            alice,
				IsAuthenticated: true,
				Error:           "too large",
			},
		},
		{
			name:   "reset update flag",
			state:  busy,
			intent: authstate.ResetUpdateFlag{},
			expected: authstate.SessionState{
				Loading:         true,
				User:            alice,
				IsAuthenticated: true,
			},
		},
		{
			name:   "clear error",
			state:  busy,
			intent: authstate.ClearError{},
			expected: authstate.SessionState{
				Loading:         true,
				User:            alice,
				IsAuthenticated: true,
				Message:         "previous message",
				IsUpdated:       true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, authstate.Reduce(tt.state, tt.intent))
		})
	}
}

func TestReduceIsPure(t *testing.T) {
	intents := []authstate.Intent{
		authstate.LoginRequest{},
		authstate.LoginSuccess{User: alice},
		authstate.LoginFailed{Message: "x"},
		authstate.LogoutSuccess{Message: "bye"},
		authstate.LogoutFailed{Message: "y"},
		authstate.UpdatePasswordRequest{},
		authstate.UpdateProfileFailed{Message: "z"},
		authstate.ResetUpdateFlag{},
		authstate.ClearError{},
	}

	for _, intent := range intents {
		input := busy
		first := authstate.Reduce(input, intent)
		second := authstate.Reduce(input, intent)
		assert.Equal(t, first, second, string(intent.Type()))
		assert.Equal(t, busy, input, "input state must not change for %s", intent.Type())
	}
}

func TestReducerKeepLoadingOnUpdateFailure(t *testing.T) {
	r := authstate.Reducer{KeepLoadingOnUpdateFailure: true}

	state := r.Reduce(authstate.SessionState{}, authstate.UpdatePasswordRequest{})
	state = r.Reduce(state, authstate.UpdatePasswordFailed{Message: "Incorrect Current Password!"})
	assert.True(t, state.Loading)
	assert.Equal(t, "Incorrect Current Password!", state.Error)
	assert.False(t, state.IsUpdated)

	state = r.Reduce(authstate.SessionState{}, authstate.UpdateProfileFailed{Message: "nope"})
	assert.True(t, state.Loading)

	// other failures are not affected by the knob
	state = r.Reduce(authstate.SessionState{Loading: true}, authstate.LoginFailed{Message: "no"})
	assert.False(t, state.Loading)
}

func TestResetUpdateFlagIsIdempotent(t *testing.T) {
	once := authstate.Reduce(busy, authstate.ResetUpdateFlag{})
	twice := authstate.Reduce(once, authstate.ResetUpdateFlag{})
	assert.Equal(t, once, twice)
}

func TestClearErrorKeepsUserLoadingAndUpdateFlag(t *testing.T) {
	states := []authstate.SessionState{
		busy,
		{},
		{Loading: true, Error: "x"},
		{User: alice, IsAuthenticated: true, IsUpdated: true, Error: "y"},
	}

	for _, state := range states {
		next := authstate.Reduce(state, authstate.ClearError{})
		assert.Equal(t, state.User, next.User)
		assert.Equal(t, state.Loading, next.Loading)
		assert.Equal(t, state.IsUpdated, next.IsUpdated)
		assert.Empty(t, next.Error)
	}
}

type unknownIntent struct{}

func (unknownIntent) Type() authstate.IntentType { return "user/unknown" }

func TestReduceIgnoresUnknownIntents(t *testing.T) {
	assert.Equal(t, busy, authstate.Reduce(busy, unknownIntent{}))
	assert.Equal(t, busy, authstate.Reduce(busy, &authstate.LoginSuccess{User: authstate.User{ID: "x"}}))
}

func TestUserIsEmpty(t *testing.T) {
	assert.True(t, authstate.User{}.IsEmpty())
	assert.False(t, alice.IsEmpty())
	assert.True(t, authstate.InitialState().User.IsEmpty())
	assert.False(t, authstate.InitialState().HasError())
}
