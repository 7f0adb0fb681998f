package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-signup/pkg/account"
	"github.com/tendant/simple-signup/pkg/credential"
	"github.com/tendant/simple-signup/pkg/notification"
	"github.com/tendant/simple-signup/pkg/signup"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	router http.Handler
	repo   *account.InMemoryRepository
	mock   *notification.MockNotifier
}

func newTestServer(t *testing.T, route string, opts ...Option) *testServer {
	t.Helper()
	mock := &notification.MockNotifier{}
	nm, err := notification.NewNotificationManagerWithOptions("http://localhost:4000",
		notification.WithNotifier(notification.EmailSystem, mock),
		notification.WithSignupTemplates(),
	)
	require.NoError(t, err)

	repo := account.NewInMemoryRepository()
	svc := signup.NewService(account.NewRegistry(repo), notification.NewMailer(nm, route))

	opts = append([]Option{WithHasher(&credential.BcryptHasher{Cost: bcrypt.MinCost})}, opts...)
	h := NewHandle(svc, opts...)

	r := chi.NewRouter()
	r.Route(route, h.Routes)
	return &testServer{router: r, repo: repo, mock: mock}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) lastToken(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, s.mock.SentNotifications)
	tok := s.mock.SentNotifications[len(s.mock.SentNotifications)-1].Data["Token"]
	require.NotEmpty(t, tok)
	return tok
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestRegister(t *testing.T) {
	s := newTestServer(t, "/signup")

	rr := s.do(t, http.MethodPost, "/signup", RegisterRequest{Name: "alice", Email: "alice@example.com", Password: "secret"})
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	acct, err := s.repo.FindByIdentifier(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", acct.Credential)
	ok, err := (&credential.BcryptHasher{}).Verify("secret", acct.Credential)
	require.NoError(t, err)
	assert.True(t, ok)

	t.Run("IdentifierTaken", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/signup", RegisterRequest{Name: "alice", Email: "other@example.com", Password: "secret"})
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "Username already taken", errorBody(t, rr))
	})

	t.Run("EmailAlreadyRegistered", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/signup", RegisterRequest{Name: "bob", Email: "alice@example.com", Password: "secret"})
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, notification.AlreadyRegisteredNotice, s.mock.SentNotices[len(s.mock.SentNotices)-1])
	})
}

func TestRegister_Validation(t *testing.T) {
	s := newTestServer(t, "/signup")

	tests := []struct {
		name string
		req  RegisterRequest
		want string
	}{
		{"missing password", RegisterRequest{Name: "alice", Email: "alice@example.com"}, "All fields are required"},
		{"missing name", RegisterRequest{Email: "alice@example.com", Password: "pw"}, "All fields are required"},
		{"not url safe", RegisterRequest{Name: "a/b", Email: "alice@example.com", Password: "pw"}, "Username may not contain any non-url-safe characters"},
		{"uppercase", RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "pw"}, "Username must be lowercase"},
		{"leading digit", RegisterRequest{Name: "9alice", Email: "alice@example.com", Password: "pw"}, "Username has to start with a lowercase letter (a-z)"},
		{"bad email", RegisterRequest{Name: "alice", Email: "alice", Password: "pw"}, "Email is invalid"},
		{"missing name before long password", RegisterRequest{Email: "alice@example.com", Password: strings.Repeat("p", 73)}, "All fields are required"},
		{"bad email before long password", RegisterRequest{Name: "alice", Email: "alice", Password: strings.Repeat("p", 73)}, "Email is invalid"},
		{"long password", RegisterRequest{Name: "alice", Email: "alice@example.com", Password: strings.Repeat("p", 73)}, "Password is too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(t, http.MethodPost, "/signup", tt.req)
			assert.Equal(t, http.StatusForbidden, rr.Code)
			assert.Equal(t, tt.want, errorBody(t, rr))
		})
	}
	assert.Zero(t, s.mock.Count())
}

func TestRegister_BadBody(t *testing.T) {
	s := newTestServer(t, "/signup")

	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVerifyToken(t *testing.T) {
	s := newTestServer(t, "/signup")
	require.Equal(t, http.StatusNoContent,
		s.do(t, http.MethodPost, "/signup", RegisterRequest{Name: "alice", Email: "alice@example.com", Password: "pw"}).Code)
	tok := s.lastToken(t)

	rr := s.do(t, http.MethodGet, "/signup/"+tok, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(t, http.MethodGet, "/signup/"+tok, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not found", errorBody(t, rr))

	rr = s.do(t, http.MethodGet, "/signup/not-a-token", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestVerifyToken_Expired(t *testing.T) {
	s := newTestServer(t, "/signup")
	require.Equal(t, http.StatusNoContent,
		s.do(t, http.MethodPost, "/signup", RegisterRequest{Name: "carol", Email: "carol@example.com", Password: "pw"}).Code)
	tok := s.lastToken(t)

	acct, err := s.repo.FindByToken(context.Background(), tok)
	require.NoError(t, err)
	past := acct.CreatedAt.Add(-1)
	acct.VerificationTokenExpiresAt = &past
	_, err = s.repo.Update(context.Background(), acct, tok)
	require.NoError(t, err)

	rr := s.do(t, http.MethodGet, "/signup/"+tok, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "token expired", errorBody(t, rr))
}

func TestResendVerification(t *testing.T) {
	s := newTestServer(t, "/signup")
	require.Equal(t, http.StatusNoContent,
		s.do(t, http.MethodPost, "/signup", RegisterRequest{Name: "alice", Email: "alice@example.com", Password: "pw"}).Code)
	first := s.lastToken(t)

	rr := s.do(t, http.MethodPost, "/signup/resend-verification", ResendVerificationRequest{Email: "alice@example.com"})
	assert.Equal(t, http.StatusNoContent, rr.Code)
	second := s.lastToken(t)
	assert.NotEqual(t, first, second)

	rr = s.do(t, http.MethodPost, "/signup/resend-verification", ResendVerificationRequest{Email: "nobody@example.com"})
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(t, http.MethodPost, "/signup/resend-verification", ResendVerificationRequest{Email: "nope"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "Email is invalid", errorBody(t, rr))

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/signup/"+first, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodGet, "/signup/"+second, nil).Code)
}

func TestRestPrefix(t *testing.T) {
	s := newTestServer(t, "/rest/signup")

	rr := s.do(t, http.MethodPost, "/rest/signup", RegisterRequest{Name: "alice", Email: "alice@example.com", Password: "pw"})
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:4000/rest/signup/"+s.lastToken(t), s.mock.SentNotifications[0].Data["Link"])

	rr = s.do(t, http.MethodPost, "/signup", RegisterRequest{Name: "bob", Email: "bob@example.com", Password: "pw"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestVerifiedResponder(t *testing.T) {
	var got *account.Account
	s := newTestServer(t, "/signup",
		WithHandleResponse(false),
		WithVerifiedResponder(func(w http.ResponseWriter, r *http.Request, acct *account.Account) {
			got = acct
			http.Redirect(w, r, "/welcome", http.StatusFound)
		}),
	)
	require.Equal(t, http.StatusNoContent,
		s.do(t, http.MethodPost, "/signup", RegisterRequest{Name: "alice", Email: "alice@example.com", Password: "pw"}).Code)

	rr := s.do(t, http.MethodGet, "/signup/"+s.lastToken(t), nil)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/welcome", rr.Header().Get("Location"))
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Identifier)
	assert.True(t, got.IsVerified())
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, notification.NoticeType, string, string, string) error {
	return errors.New("smtp down")
}

func TestNotificationFailure(t *testing.T) {
	svc := signup.NewService(account.NewRegistry(account.NewInMemoryRepository()), failingNotifier{})
	h := NewHandle(svc, WithHasher(&credential.BcryptHasher{Cost: bcrypt.MinCost}))
	r := chi.NewRouter()
	r.Route("/signup", h.Routes)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(RegisterRequest{Name: "alice", Email: "alice@example.com", Password: "pw"}))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/signup", &buf))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "failed to send registration-confirmation notice", errorBody(t, rr))
}
