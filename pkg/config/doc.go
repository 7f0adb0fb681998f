// Package config loads the signup service configuration from the environment.
//
// Config groups the settings; every field carries cleanenv env and
// env-default tags:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	mount := cfg.Signup.RoutePrefix() // "/signup", or "/rest/signup" with SIGNUP_REST=true
//
// # Variables
//
//	SIGNUP_TOKEN_TTL        verification token lifetime (24h)
//	SIGNUP_ROUTE            route the endpoints are mounted on (/signup)
//	SIGNUP_REST             prefix the route with /rest (false)
//	SIGNUP_HANDLE_RESPONSE  answer a successful verification with 204 (true)
//	SIGNUP_TOKEN_FORMAT     canonical or compact (canonical)
//	BASE_URL                public address used in email links
//	SIGNUP_PERSISTENCE      memory, file, postgres, redis or sqlite (file)
//	SIGNUP_DATA_DIR         file backend directory (./data)
//	SIGNUP_SQLITE_PATH      sqlite database file (signup.db)
//	SIGNUP_PG_*             postgres connection
//	REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_PREFIX
//	EMAIL_HOST, EMAIL_PORT, EMAIL_USERNAME, EMAIL_PASSWORD, EMAIL_FROM, EMAIL_TLS
//
// # Validation
//
// Validation helpers return *ValidationError values that CollectErrors and
// Validate combine into one ValidationErrors:
//
//	err := config.Validate(func() config.ValidationErrors {
//	    return config.CollectErrors(
//	        config.RequireNonEmpty("EMAIL_HOST", host),
//	        config.RequireValidPort("EMAIL_PORT", port),
//	    )
//	})
//
// The GetEnv* helpers read single variables with a default, for tools that do
// not need the full Config.
package config
