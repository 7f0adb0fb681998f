package notification

import "context"

// NoticeType names a kind of message, e.g. "registration-confirmation".
type NoticeType string

const (
	// Sent with the first verification link after a successful registration.
	RegistrationConfirmationNotice NoticeType = "registration-confirmation"
	// Sent to the existing owner when someone registers with their email.
	AlreadyRegisteredNotice NoticeType = "already-registered"
	// Sent with a rotated verification link.
	ResendVerificationNotice NoticeType = "resend-verification"
)

// NotificationSystem represents a delivery channel (e.g., email).
type NotificationSystem string

const (
	EmailSystem NotificationSystem = "email"
	SMSSystem   NotificationSystem = "sms"
)

type NoticeTemplate struct {
	Subject string
	Text    string
	Html    string
}

type NotificationData struct {
	To      string            // Recipient identifier (e.g., email address)
	Subject string            // Optional: overrides the template subject
	Body    string            // Optional: raw content when no template body is set
	Data    map[string]string // Template values
}

type Notifier interface {
	Send(ctx context.Context, noticeType NoticeType, notification NotificationData, template NoticeTemplate) error
}
