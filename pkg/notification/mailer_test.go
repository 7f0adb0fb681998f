package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailer(t *testing.T, route string) (*Mailer, *MockNotifier) {
	t.Helper()
	mock := &MockNotifier{}
	nm, err := NewNotificationManagerWithOptions("http://localhost:4000",
		WithNotifier(EmailSystem, mock),
		WithSignupTemplates(),
	)
	require.NoError(t, err)
	return NewMailer(nm, route), mock
}

func TestMailer_VerificationLink(t *testing.T) {
	for _, route := range []string{"/signup", "signup", "/signup/"} {
		m, _ := newTestMailer(t, route)
		assert.Equal(t, "http://localhost:4000/signup/abc", m.VerificationLink("abc"), route)
	}

	m, _ := newTestMailer(t, "/rest/signup")
	assert.Equal(t, "http://localhost:4000/rest/signup/abc", m.VerificationLink("abc"))
}

func TestMailer_Notify(t *testing.T) {
	ctx := context.Background()

	t.Run("WithToken", func(t *testing.T) {
		m, mock := newTestMailer(t, "/signup")
		err := m.Notify(ctx, RegistrationConfirmationNotice, "alice", "alice@example.com", "tok123")
		require.NoError(t, err)

		require.Len(t, mock.SentNotifications, 1)
		sent := mock.SentNotifications[0]
		assert.Equal(t, "alice@example.com", sent.To)
		assert.Equal(t, "alice", sent.Data["Identifier"])
		assert.Equal(t, "tok123", sent.Data["Token"])
		assert.Equal(t, "http://localhost:4000/signup/tok123", sent.Data["Link"])
		assert.Equal(t, []NoticeType{RegistrationConfirmationNotice}, mock.SentNotices)
	})

	t.Run("WithoutToken", func(t *testing.T) {
		m, mock := newTestMailer(t, "/signup")
		err := m.Notify(ctx, AlreadyRegisteredNotice, "alice", "alice@example.com", "")
		require.NoError(t, err)

		require.Len(t, mock.SentNotifications, 1)
		sent := mock.SentNotifications[0]
		assert.NotContains(t, sent.Data, "Link")
		assert.Equal(t, "http://localhost:4000/signup/resend-verification", sent.Data["ResendLink"])
	})

	t.Run("TemplatesRender", func(t *testing.T) {
		m, mock := newTestMailer(t, "/signup")
		cases := []struct {
			notice NoticeType
			token  string
		}{
			{RegistrationConfirmationNotice, "tok123"},
			{AlreadyRegisteredNotice, ""},
			{ResendVerificationNotice, "tok456"},
		}
		for _, c := range cases {
			require.NoError(t, m.Notify(ctx, c.notice, "alice", "alice@example.com", c.token))
		}

		for i, c := range cases {
			tmpl := m.manager.notificationRegistry[c.notice][EmailSystem]
			rendered, err := renderEmail(mock.SentNotifications[i], tmpl)
			require.NoError(t, err, c.notice)
			assert.Contains(t, rendered.Text, "alice", c.notice)
			assert.Contains(t, rendered.Html, "alice", c.notice)
			if c.token != "" {
				assert.Contains(t, rendered.Text, "http://localhost:4000/signup/"+c.token, c.notice)
			}
		}
	})
}
