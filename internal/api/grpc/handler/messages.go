package handler

// RegisterRequest is the payload of Auth/Register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload of Auth/Login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenRequest is the payload of Auth/Refresh and Auth/Logout.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenPairResponse is returned by every successful sign-in.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Empty struct{}

// MeResponse describes the caller's identity.
type MeResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// VersionResponse describes the running build.
type VersionResponse struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// StatusResponse is a liveness report tagged with request tracing ids.
type StatusResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Time          string `json:"time"`
	TraceID       string `json:"trace_id,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
