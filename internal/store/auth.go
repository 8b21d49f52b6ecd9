package store

import "github.com/MStartsev/postcard/internal/domain"

// AuthState is the auth container snapshot. Successful register/login
// replaces the whole snapshot; logout clears it unconditionally.
type AuthState struct {
	User            *domain.Profile
	IsAuthenticated bool
	IsLoading       bool
	Err             string
}

// AuthAction is a finished auth result to fold into the state.
type AuthAction interface{ isAuthAction() }

// SetUser installs a profile after successful register/login.
type SetUser struct{ User domain.Profile }

// ClearUser wipes the auth snapshot at logout.
type ClearUser struct{}

// SetAuthLoading flags an auth operation in flight.
type SetAuthLoading struct{ Loading bool }

// SetAuthError records a failed auth operation.
type SetAuthError struct{ Message string }

func (SetUser) isAuthAction()        {}
func (ClearUser) isAuthAction()      {}
func (SetAuthLoading) isAuthAction() {}
func (SetAuthError) isAuthAction()   {}

// AuthStore is the auth state container.
type AuthStore = Store[AuthState, AuthAction]

// NewAuthStore creates an auth container with an empty snapshot.
func NewAuthStore() *AuthStore {
	return New(AuthState{}, ReduceAuth)
}

// ReduceAuth is the pure transition function for auth state.
func ReduceAuth(state AuthState, action AuthAction) AuthState {
	switch a := action.(type) {
	case SetUser:
		user := a.User
		state.User = &user
		state.IsAuthenticated = true
		state.IsLoading = false
		state.Err = ""
	case ClearUser:
		state.User = nil
		state.IsAuthenticated = false
		state.Err = ""
	case SetAuthLoading:
		state.IsLoading = a.Loading
	case SetAuthError:
		state.Err = a.Message
		state.IsLoading = false
	}
	return state
}
