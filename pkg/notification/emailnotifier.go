package notification

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	texttemplate "text/template"
	"time"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	TLS      bool
	Username string
	Password string
	From     string
}

type EmailNotifier struct {
	SMTPConfig SMTPConfig
	client     *mail.Client
}

func NewEmailNotifier(config SMTPConfig) (*EmailNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(config.Port),
		mail.WithTimeout(30 * time.Second),
	}

	// Only add authentication if username and password are provided
	if config.Username != "" && config.Password != "" {
		slog.Info("Adding authentication", "user", config.Username)
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(config.Username),
			mail.WithPassword(config.Password),
		)
	}

	if !config.TLS {
		slog.Info("Using NoTLS policy")
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	} else {
		slog.Info("Using TLS Mandatory policy")
		opts = append(opts,
			mail.WithTLSConfig(&tls.Config{ServerName: config.Host, MinVersion: tls.VersionTLS12}),
			mail.WithTLSPolicy(mail.TLSMandatory),
		)
	}

	slog.Info("Creating mail client", "host", config.Host, "port", config.Port)
	client, err := mail.NewClient(config.Host, opts...)
	if err != nil {
		slog.Error("Failed to create mail client", "error", err)
		return nil, err
	}

	return &EmailNotifier{SMTPConfig: config, client: client}, nil
}

// renderedEmail is a notice after template execution.
type renderedEmail struct {
	Subject string
	Text    string
	Html    string
}

// renderEmail executes the template bodies against notification.Data. Text is
// rendered with text/template and Html with html/template, which escapes values.
func renderEmail(notification NotificationData, noticeTemplate NoticeTemplate) (renderedEmail, error) {
	out := renderedEmail{Subject: noticeTemplate.Subject}
	if notification.Subject != "" {
		out.Subject = notification.Subject
	}

	if noticeTemplate.Text != "" {
		tmpl, err := texttemplate.New("text").Option("missingkey=error").Parse(noticeTemplate.Text)
		if err != nil {
			return renderedEmail{}, fmt.Errorf("failed to parse text template: %w", err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, notification.Data); err != nil {
			return renderedEmail{}, fmt.Errorf("failed to execute text template: %w", err)
		}
		out.Text = buf.String()
	}

	if noticeTemplate.Html != "" {
		tmpl, err := htmltemplate.New("html").Option("missingkey=error").Parse(noticeTemplate.Html)
		if err != nil {
			return renderedEmail{}, fmt.Errorf("failed to parse HTML template: %w", err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, notification.Data); err != nil {
			return renderedEmail{}, fmt.Errorf("failed to execute HTML template: %w", err)
		}
		out.Html = buf.String()
	}

	if out.Text == "" && out.Html == "" {
		out.Text = notification.Body
	}
	return out, nil
}

func (e *EmailNotifier) Send(ctx context.Context, noticeType NoticeType, notification NotificationData, noticeTemplate NoticeTemplate) error {
	if notification.To == "" {
		return fmt.Errorf("email notification requires 'To' address")
	}

	rendered, err := renderEmail(notification, noticeTemplate)
	if err != nil {
		slog.Error("Failed to render email", "notice", noticeType, "error", err)
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(e.SMTPConfig.From); err != nil {
		slog.Error("Failed to set from address", "error", err)
		return err
	}
	if err := msg.To(notification.To); err != nil {
		slog.Error("Failed to set to address", "error", err)
		return err
	}
	msg.Subject(rendered.Subject)

	switch {
	case rendered.Text != "" && rendered.Html != "":
		msg.SetBodyString(mail.TypeTextPlain, rendered.Text)
		msg.AddAlternativeString(mail.TypeTextHTML, rendered.Html)
	case rendered.Html != "":
		msg.SetBodyString(mail.TypeTextHTML, rendered.Html)
	default:
		msg.SetBodyString(mail.TypeTextPlain, rendered.Text)
	}

	if err := e.client.DialAndSendWithContext(ctx, msg); err != nil {
		slog.Error("Failed to send email", "notice", noticeType, "error", err)
		return err
	}

	slog.Info("Email sent successfully", "notice", noticeType, "to", notification.To, "host", e.SMTPConfig.Host, "port", e.SMTPConfig.Port)
	return nil
}
