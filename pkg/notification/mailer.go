package notification

import (
	"context"
	"net/url"
	"strings"
)

// Mailer turns signup notices into NotificationManager sends. Verification
// links have the form BaseUrl + route + "/" + token.
type Mailer struct {
	manager *NotificationManager
	route   string
}

func NewMailer(manager *NotificationManager, route string) *Mailer {
	return &Mailer{
		manager: manager,
		route:   "/" + strings.Trim(route, "/"),
	}
}

// VerificationLink builds the link that redeems tok.
func (m *Mailer) VerificationLink(tok string) string {
	return m.manager.BaseUrl + m.route + "/" + url.PathEscape(tok)
}

// Notify sends notice to email. token is empty for the already-registered notice.
func (m *Mailer) Notify(ctx context.Context, notice NoticeType, identifier, email, token string) error {
	data := map[string]string{
		"Identifier": identifier,
		"Email":      email,
		"ResendLink": m.manager.BaseUrl + m.route + "/resend-verification",
	}
	if token != "" {
		data["Token"] = token
		data["Link"] = m.VerificationLink(token)
	}

	return m.manager.Send(ctx, notice, NotificationData{
		To:   email,
		Data: data,
	})
}
