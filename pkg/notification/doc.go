// Package notification delivers signup notices.
//
// A NotificationManager maps each NoticeType to one template per delivery
// system and sends through the Notifier registered for that system. The email
// system is served by EmailNotifier, built on go-mail.
//
//	nm, err := notification.NewNotificationManagerWithOptions("https://example.com",
//	    notification.WithSMTP(smtpConfig),
//	    notification.WithSignupTemplates(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	mailer := notification.NewMailer(nm, "/signup")
//
// Mailer adapts the manager to the signup flow: it fills in the identifier,
// email and the verification link BaseUrl + route + "/" + token.
//
// Templates use text/template for the plain body and html/template for the
// HTML body. Available keys are Identifier, Email, ResendLink, and for notices
// carrying a token, Token and Link.
//
// MockNotifier records sends for tests.
package notification
