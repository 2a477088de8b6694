package model

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	maxPasswordLength = 128
	maxEmailLength    = 254
)

var emailRules = []validation.Rule{validation.Required, validation.Length(3, maxEmailLength), is.Email}

// RegisterRequest carries the fields needed to create a password account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements validation.Validatable.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, emailRules...),
		validation.Field(&r.Password, validation.Required, validation.Length(1, maxPasswordLength)),
	)
}

// ValidateEmail checks only the account key, so a taken email is reported
// as a conflict whatever password came with it.
func (r RegisterRequest) ValidateEmail() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, emailRules...),
	)
}

// LoginRequest carries password credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements validation.Validatable. The password is left to the
// verifier: any value that does not match is rejected as unauthorized.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, emailRules...),
	)
}

// RefreshRequest carries a refresh token for rotation or logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Validate implements validation.Validatable.
func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

// OAuth provider names accepted by the identity resolver.
const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// OAuthProfile is the verified identity handed over by an external
// identity-provider integration. It is never persisted.
type OAuthProfile struct {
	Provider   string `json:"provider"`
	ProviderID string `json:"provider_id"`
	Email      string `json:"email"`
}

// Validate implements validation.Validatable.
func (p OAuthProfile) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Provider, validation.Required, validation.In(ProviderGoogle, ProviderGitHub)),
		validation.Field(&p.ProviderID, validation.Required),
		validation.Field(&p.Email, emailRules...),
	)
}

// Strategy tags one of the supported ways to establish an identity.
type Strategy string

const (
	StrategyPassword     Strategy = "password"
	StrategyRefreshToken Strategy = "refresh_token"
	StrategyGoogle       Strategy = "oauth_google"
	StrategyGitHub       Strategy = "oauth_github"
)

// StrategyForProvider maps an OAuth provider name to its strategy tag.
func StrategyForProvider(provider string) (Strategy, bool) {
	switch provider {
	case ProviderGoogle:
		return StrategyGoogle, true
	case ProviderGitHub:
		return StrategyGitHub, true
	default:
		return "", false
	}
}

// Credentials is the input of a sign-in. Only the fields relevant to
// Strategy are read.
type Credentials struct {
	Strategy     Strategy
	Email        string
	Password     string
	RefreshToken string
	Profile      OAuthProfile
}
