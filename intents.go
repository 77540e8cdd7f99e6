package authstate

// IntentType names a state transition request.
type IntentType string

const (
	IntentLoginRequest          IntentType = "user/loginRequest"
	IntentLoginSuccess          IntentType = "user/loginSuccess"
	IntentLoginFailed           IntentType = "user/loginFailed"
	IntentLoadUserRequest       IntentType = "user/loadUserRequest"
	IntentLoadUserSuccess       IntentType = "user/loadUserSuccess"
	IntentLoadUserFailed        IntentType = "user/loadUserFailed"
	IntentLogoutSuccess         IntentType = "user/logoutSuccess"
	IntentLogoutFailed          IntentType = "user/logoutFailed"
	IntentUpdatePasswordRequest IntentType = "user/updatePasswordRequest"
	IntentUpdatePasswordSuccess IntentType = "user/updatePasswordSuccess"
	IntentUpdatePasswordFailed  IntentType = "user/updatePasswordFailed"
	IntentUpdateProfileRequest  IntentType = "user/updateProfileRequest"
	IntentUpdateProfileSuccess  IntentType = "user/updateProfileSuccess"
	IntentUpdateProfileFailed   IntentType = "user/updateProfileFailed"
	IntentResetUpdateFlag       IntentType = "user/resetUpdateFlag"
	IntentClearError            IntentType = "user/clearError"
)

// Intent is a request to transition the session state. The concrete
// types below are the only intents the reducer understands.
type Intent interface {
	Type() IntentType
}

// LoginRequest marks a login call as in flight.
type LoginRequest struct{}

// LoginSuccess stores the authenticated user.
type LoginSuccess struct{ User User }

// LoginFailed records why a login was rejected.
type LoginFailed struct{ Message string }

// LoadUserRequest marks a session restore as in flight.
type LoadUserRequest struct{}

// LoadUserSuccess stores the user returned by a session restore.
type LoadUserSuccess struct{ User User }

// LoadUserFailed records why the session could not be restored.
type LoadUserFailed struct{ Message string }

// LogoutSuccess clears the session and keeps the server message.
type LogoutSuccess struct{ Message string }

// LogoutFailed records why a logout was rejected.
type LogoutFailed struct{ Message string }

// UpdatePasswordRequest marks a password change as in flight.
type UpdatePasswordRequest struct{}

// UpdatePasswordSuccess sets the updated flag and server message.
type UpdatePasswordSuccess struct{ Message string }

// UpdatePasswordFailed records why a password change was rejected.
type UpdatePasswordFailed struct{ Message string }

// UpdateProfileRequest marks a profile update as in flight.
type UpdateProfileRequest struct{}

// UpdateProfileSuccess sets the updated flag and server message.
type UpdateProfileSuccess struct{ Message string }

// UpdateProfileFailed records why a profile update was rejected.
type UpdateProfileFailed struct{ Message string }

// ResetUpdateFlag clears IsUpdated together with the message and error.
type ResetUpdateFlag struct{}

// ClearError drops the current error message.
type ClearError struct{}

func (LoginRequest) Type() IntentType          { return IntentLoginRequest }
func (LoginSuccess) Type() IntentType          { return IntentLoginSuccess }
func (LoginFailed) Type() IntentType           { return IntentLoginFailed }
func (LoadUserRequest) Type() IntentType       { return IntentLoadUserRequest }
func (LoadUserSuccess) Type() IntentType       { return IntentLoadUserSuccess }
func (LoadUserFailed) Type() IntentType        { return IntentLoadUserFailed }
func (LogoutSuccess) Type() IntentType         { return IntentLogoutSuccess }
func (LogoutFailed) Type() IntentType          { return IntentLogoutFailed }
func (UpdatePasswordRequest) Type() IntentType { return IntentUpdatePasswordRequest }
func (UpdatePasswordSuccess) Type() IntentType { return IntentUpdatePasswordSuccess }
func (UpdatePasswordFailed) Type() IntentType  { return IntentUpdatePasswordFailed }
func (UpdateProfileRequest) Type() IntentType  { return IntentUpdateProfileRequest }
func (UpdateProfileSuccess) Type() IntentType  { return IntentUpdateProfileSuccess }
func (UpdateProfileFailed) Type() IntentType   { return IntentUpdateProfileFailed }
func (ResetUpdateFlag) Type() IntentType       { return IntentResetUpdateFlag }
func (ClearError) Type() IntentType            { return IntentClearError }
