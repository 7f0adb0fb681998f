package notification

import (
	"embed"
	"log/slog"
)

//go:embed templates/*
var templateFiles embed.FS

func loadTemplate(filename string) string {
	content, err := templateFiles.ReadFile(filename)
	if err != nil {
		slog.Error("Error reading template file!", "error", err, "filename", filename)
		return ""
	}
	return string(content)
}

// NotificationManagerOption is a function that configures a NotificationManager
type NotificationManagerOption func(*NotificationManager) error

// WithSMTP adds an email notifier with the provided SMTP configuration
func WithSMTP(config SMTPConfig) NotificationManagerOption {
	return func(nm *NotificationManager) error {
		emailNotifier, err := NewEmailNotifier(config)
		if err != nil {
			return err
		}
		nm.RegisterNotifier(EmailSystem, emailNotifier)
		return nil
	}
}

// WithNotifier registers an arbitrary notifier for system
func WithNotifier(system NotificationSystem, notifier Notifier) NotificationManagerOption {
	return func(nm *NotificationManager) error {
		nm.RegisterNotifier(system, notifier)
		return nil
	}
}

// WithRegistrationConfirmationTemplate registers the first verification email
func WithRegistrationConfirmationTemplate() NotificationManagerOption {
	return func(nm *NotificationManager) error {
		return nm.RegisterNotification(RegistrationConfirmationNotice, EmailSystem, NoticeTemplate{
			Subject: "Confirm your account",
			Text:    loadTemplate("templates/email/registration_confirmation.txt"),
			Html:    loadTemplate("templates/email/registration_confirmation.html"),
		})
	}
}

// WithAlreadyRegisteredTemplate registers the notice sent to an existing owner
func WithAlreadyRegisteredTemplate() NotificationManagerOption {
	return func(nm *NotificationManager) error {
		return nm.RegisterNotification(AlreadyRegisteredNotice, EmailSystem, NoticeTemplate{
			Subject: "You already have an account",
			Text:    loadTemplate("templates/email/already_registered.txt"),
			Html:    loadTemplate("templates/email/already_registered.html"),
		})
	}
}

// WithResendVerificationTemplate registers the rotated verification email
func WithResendVerificationTemplate() NotificationManagerOption {
	return func(nm *NotificationManager) error {
		return nm.RegisterNotification(ResendVerificationNotice, EmailSystem, NoticeTemplate{
			Subject: "Your new verification link",
			Text:    loadTemplate("templates/email/resend_verification.txt"),
			Html:    loadTemplate("templates/email/resend_verification.html"),
		})
	}
}

// WithSignupTemplates registers all signup notice templates
func WithSignupTemplates() NotificationManagerOption {
	return func(nm *NotificationManager) error {
		options := []NotificationManagerOption{
			WithRegistrationConfirmationTemplate(),
			WithAlreadyRegisteredTemplate(),
			WithResendVerificationTemplate(),
		}

		for _, opt := range options {
			if err := opt(nm); err != nil {
				return err
			}
		}

		return nil
	}
}

// NewNotificationManagerWithOptions creates a new notification manager with the provided options
func NewNotificationManagerWithOptions(baseUrl string, opts ...NotificationManagerOption) (*NotificationManager, error) {
	notificationManager := NewNotificationManager(baseUrl)

	for _, opt := range opts {
		if err := opt(notificationManager); err != nil {
			return nil, err
		}
	}

	return notificationManager, nil
}
