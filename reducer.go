package authstate

// Reducer applies intents to a SessionState. The zero value is ready to use.
type Reducer struct {
	// KeepLoadingOnUpdateFailure leaves Loading set after a failed
	// password or profile update.
	KeepLoadingOnUpdateFailure bool
}

// Reduce applies intent to state using the zero Reducer.
func Reduce(state SessionState, intent Intent) SessionState {
	return Reducer{}.Reduce(state, intent)
}

// Reduce returns the state that follows state once intent is applied.
// Intents are matched by value; unknown intents, including pointers to
// the intent types, leave the state untouched.
func (r Reducer) Reduce(state SessionState, intent Intent) SessionState {
	switch in := intent.(type) {
	case LoginRequest, LoadUserRequest:
		return pending(state)
	case LoginSuccess:
		return authenticated(state, in.User)
	case LoadUserSuccess:
		return authenticated(state, in.User)
	case LoginFailed:
		return rejected(state, in.Message)
	case LoadUserFailed:
		return rejected(state, in.Message)
	case LogoutSuccess:
		return loggedOut(state, in.Message)
	case LogoutFailed:
		return logoutFailed(state, in.Message)
	case UpdatePasswordRequest, UpdateProfileRequest:
		return updating(state)
	case UpdatePasswordSuccess:
		return updated(state, in.Message)
	case UpdateProfileSuccess:
		return updated(state, in.Message)
	case UpdatePasswordFailed:
		return r.updateFailed(state, in.Message)
	case UpdateProfileFailed:
		return r.updateFailed(state, in.Message)
	case ResetUpdateFlag:
		state.Message = ""
		state.Error = ""
		state.IsUpdated = false
		return state
	case ClearError:
		state.Error = ""
		return state
	}
	return state
}

func pending(state SessionState) SessionState {
	state.Loading = true
	state.User = User{}
	state.IsAuthenticated = false
	state.Error = ""
	return state
}

func authenticated(state SessionState, user User) SessionState {
	state.Loading = false
	state.User = user
	state.IsAuthenticated = true
	state.Error = ""
	return state
}

func rejected(state SessionState, msg string) SessionState {
	state.Loading = false
	state.User = User{}
	state.IsAuthenticated = false
	state.Error = msg
	return state
}

func loggedOut(state SessionState, msg string) SessionState {
	state.Loading = false
	state.User = User{}
	state.IsAuthenticated = false
	state.Error = ""
	state.Message = msg
	return state
}

func logoutFailed(state SessionState, msg string) SessionState {
	state.Loading = false
	state.Error = msg
	return state
}

func updating(state SessionState) SessionState {
	state.Loading = true
	state.IsUpdated = false
	state.Message = ""
	state.Error = ""
	return state
}

func updated(state SessionState, msg string) SessionState {
	state.Loading = false
	state.IsUpdated = true
	state.Message = msg
	state.Error = ""
	return state
}

func (r Reducer) updateFailed(state SessionState, msg string) SessionState {
	state.Loading = r.KeepLoadingOnUpdateFailure
	state.IsUpdated = false
	state.Message = ""
	state.Error = msg
	return state
}
