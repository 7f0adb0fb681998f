// Package signup implements account activation: registering a pending
// account, mailing a single-use verification token, and redeeming it.
//
// # Quick Start
//
//	repo, _ := account.NewRepository("memory", account.RepositoryConfig{})
//	nm, _ := notification.NewNotificationManagerWithOptions(baseURL,
//	    notification.WithSMTP(smtpConfig),
//	    notification.WithSignupTemplates(),
//	)
//	emitter := events.NewEmitter()
//	emitter.On(events.AccountVerified, events.LogListener())
//
//	svc := signup.NewService(account.NewRegistry(repo), notification.NewMailer(nm, "/signup"),
//	    signup.WithTokenTTL(24*time.Hour),
//	    signup.WithEmitter(emitter),
//	)
//
// # Results
//
// Every operation returns a Result and an error. Business outcomes such as
// ValidationFailed, IdentifierTaken or Expired are reported in Result.Outcome
// with a nil error. The error is non-nil only for infrastructure problems:
// STORAGE_FAILURE and NOTIFICATION_FAILURE from pkg/errors.
//
//	res, err := svc.Register(ctx, "alice", "alice@example.com", hashed)
//	if err != nil {
//	    // storage or mail delivery failed
//	}
//	switch res.Outcome {
//	case signup.Created, signup.AlreadyRegisteredNotified:
//	    // both are answered with 204
//	case signup.ValidationFailed, signup.IdentifierTaken:
//	    // res.Reason.Error() is safe to show
//	}
//
// # Token lifecycle
//
// A token is valid up to and including its expiry instant. Redeeming it
// verifies the account and clears the token, so a second attempt is
// NotFound. Redeeming it late clears it too and returns Expired; the account
// stays pending until ResendVerification issues a new one. Resending always
// replaces the outstanding token.
package signup
