package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/tendant/simple-signup/pkg/notification"
	"github.com/tendant/simple-signup/pkg/token"
)

// mailtest renders one signup notice and sends it through SMTP, for checking
// templates and mail server settings by hand.
func main() {
	host := flag.String("host", "localhost", "SMTP server host")
	port := flag.Int("port", 1025, "SMTP server port")
	username := flag.String("user", "", "SMTP username")
	password := flag.String("pass", "", "SMTP password")
	useTLS := flag.Bool("tls", false, "Require TLS")
	from := flag.String("from", "noreply@example.com", "From email address")
	to := flag.String("to", "", "To email address")
	notice := flag.String("notice", string(notification.RegistrationConfirmationNotice),
		"Notice to send: registration-confirmation, already-registered or resend-verification")
	identifier := flag.String("identifier", "testuser", "Identifier shown in the notice")
	baseURL := flag.String("base-url", "http://localhost:4000", "Base URL used in links")
	route := flag.String("route", "/signup", "Signup route used in links")
	flag.Parse()

	if *to == "" {
		fmt.Println("Error: to email address is required")
		os.Exit(1)
	}

	noticeType := notification.NoticeType(*notice)
	switch noticeType {
	case notification.RegistrationConfirmationNotice,
		notification.AlreadyRegisteredNotice,
		notification.ResendVerificationNotice:
	default:
		fmt.Printf("Error: unknown notice %q\n", *notice)
		os.Exit(1)
	}

	manager, err := notification.NewNotificationManagerWithOptions(*baseURL,
		notification.WithSMTP(notification.SMTPConfig{
			Host:     *host,
			Port:     *port,
			Username: *username,
			Password: *password,
			From:     *from,
			TLS:      *useTLS,
		}),
		notification.WithSignupTemplates(),
	)
	if err != nil {
		log.Fatalf("Failed to create notification manager: %v", err)
	}

	// The already-registered notice carries no token.
	var value string
	if noticeType != notification.AlreadyRegisteredNotice {
		tok, err := token.NewIssuer().Issue(time.Hour)
		if err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		value = tok.Value
	}

	mailer := notification.NewMailer(manager, *route)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := mailer.Notify(ctx, noticeType, *identifier, *to, value); err != nil {
		log.Fatalf("Failed to send %s: %v", noticeType, err)
	}

	fmt.Println("Email sent successfully!")
	if value != "" {
		fmt.Println("Link:", mailer.VerificationLink(value))
	}
}
