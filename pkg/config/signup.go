package config

import (
	"strings"
	"time"

	"github.com/tendant/simple-signup/pkg/token"
)

// SignupConfig configures the signup flow and its routes.
type SignupConfig struct {
	TokenTTL       time.Duration `env:"SIGNUP_TOKEN_TTL" env-default:"24h"`
	Route          string        `env:"SIGNUP_ROUTE" env-default:"/signup"`
	Rest           bool          `env:"SIGNUP_REST" env-default:"false"`
	HandleResponse bool          `env:"SIGNUP_HANDLE_RESPONSE" env-default:"true"`
	TokenFormat    string        `env:"SIGNUP_TOKEN_FORMAT" env-default:"canonical"`
	BaseURL        string        `env:"BASE_URL" env-default:"http://localhost:4000"`
}

// RoutePrefix is where the signup routes are mounted. With Rest set the
// route moves under /rest, e.g. /rest/signup.
func (s SignupConfig) RoutePrefix() string {
	route := "/" + strings.Trim(s.Route, "/")
	if s.Rest {
		return "/rest" + route
	}
	return route
}

func (s SignupConfig) validate() ValidationErrors {
	_, formatErr := token.ParseFormat(s.TokenFormat)
	var format *ValidationError
	if formatErr != nil {
		format = &ValidationError{Field: "SIGNUP_TOKEN_FORMAT", Message: formatErr.Error()}
	}

	return CollectErrors(
		RequirePositiveDuration("SIGNUP_TOKEN_TTL", s.TokenTTL),
		RequireNonEmpty("SIGNUP_ROUTE", strings.Trim(s.Route, "/")),
		RequireValidURL("BASE_URL", s.BaseURL),
		format,
	)
}
