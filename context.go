package authstate

import "context"

var sessionCtxKey = &contextKey{"session"}
var storeCtxKey = &contextKey{"store"}

type contextKey struct {
	name string
}

// WithContext sets the Session in the given context
func WithContext(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, session)
}

// FromContext finds the Session in the context.
func FromContext(ctx context.Context) (*Session, bool) {
	raw, ok := ctx.Value(sessionCtxKey).(*Session)
	return raw, ok && raw != nil
}

// WithStoreContext sets the Store in the given context
func WithStoreContext(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeCtxKey, store)
}

// StoreFromContext finds the Store in the context, falling back to the
// store of a Session stored with WithContext.
func StoreFromContext(ctx context.Context) (*Store, bool) {
	if raw, ok := ctx.Value(storeCtxKey).(*Store); ok && raw != nil {
		return raw, true
	}
	if session, ok := FromContext(ctx); ok {
		return session.Store(), true
	}
	return nil, false
}

// StateFromContext returns the state of the store found in ctx.
func StateFromContext(ctx context.Context) (SessionState, bool) {
	store, ok := StoreFromContext(ctx)
	if !ok {
		return SessionState{}, false
	}
	return store.State(), true
}
