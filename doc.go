// Package authstate keeps the client side view of an authenticated user
// session in sync with a remote user service.
//
// State:
//   - SessionState is a plain value: loading flag, the current User, the
//     authenticated flag, the last error and status message, and an
//     updated flag for password/profile changes.
//   - Store owns one SessionState and only changes it by dispatching
//     intents (LoginRequest, LoginSuccess, ...). Reducer is the pure
//     transition function; subscribers see every transition in order.
//
// Operations:
//   - Session sequences intents around a single API call per operation:
//     Login, RestoreSession, Logout, ChangePassword and UpdateProfile,
//     plus ResetProfileUpdateFlag and ClearErrors which never touch the
//     network. Failures end up in SessionState.Error and are not
//     returned to the caller.
//   - APIClient is the HTTP implementation of API. Session cookies are
//     kept in a cookie jar so every request carries credentials.
//
// Activity sinks:
//   - ActivitySink receives one ActivityEvent per completed network
//     operation. Sinks run best-effort (errors are logged).
package authstate
