package authtest

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	authstate "github.com/goliatone/go-auth-state"
)

const (
	DefaultCookieName = "token"
	DefaultTokenTTL   = 24 * time.Hour
)

// Messages returned by the service, matching the production backend.
const (
	MsgLoggedIn           = "Logged In!"
	MsgLoggedOut          = "Logged Out!"
	MsgPasswordUpdated    = "Password Updated!"
	MsgProfileUpdated     = "Profile Updated!"
	MsgProvideCredentials = "Provide Email and Password!"
	MsgInvalidCredentials = "Invalid Email or Password!"
	MsgNotAuthenticated   = "User not Authenticated!"
	MsgFillAllFields      = "Please Fill All Fields."
	MsgIncorrectPassword  = "Incorrect Current Password!"
	MsgPasswordMismatch   = "New Password And Confirm New Password Do Not Match!"
)

// Call is a request observed by the server.
type Call struct {
	Method    string
	Path      string
	RequestID string
	Cookie    bool
}

type account struct {
	user         authstate.User
	passwordHash string
}

type failure struct {
	status int
	body   string
}

// Server is a fake user service backed by a fiber app.
type Server struct {
	app        *fiber.App
	http       *httptest.Server
	signingKey []byte
	cookieName string
	tokenTTL   time.Duration
	now        func() time.Time

	mu       sync.Mutex
	accounts map[string]*account
	revoked  map[string]struct{}
	failures map[string][]failure
	calls    []Call
}

// Option customizes the fake service.
type Option func(*Server)

// WithSigningKey sets the HMAC key used to sign session tokens.
func WithSigningKey(key []byte) Option {
	return func(s *Server) {
		if len(key) > 0 {
			s.signingKey = key
		}
	}
}

// WithCookieName sets the name of the session cookie.
func WithCookieName(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.cookieName = name
		}
	}
}

// WithTokenTTL sets how long issued sessions stay valid.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithClock injects a custom clock used for token timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewServer starts the fake service on a loopback listener. Call Close
// when done.
func NewServer(opts ...Option) *Server {
	s := &Server{
		signingKey: []byte(uuid.NewString()),
		cookieName: DefaultCookieName,
		tokenTTL:   DefaultTokenTTL,
		now:        time.Now,
		accounts:   map[string]*account{},
		revoked:    map[string]struct{}{},
		failures:   map[string][]failure{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Immutable:             true,
		BodyLimit:             16 * 1024 * 1024,
	})
	s.registerRoutes()
	s.http = httptest.NewServer(adaptor.FiberApp(s.app))

	return s
}

// URL is the base URL of the service.
func (s *Server) URL() string {
	return s.http.URL
}

// Client returns an http.Client for the service.
func (s *Server) Client() *http.Client {
	return s.http.Client()
}

// App exposes the underlying fiber app, e.g. to register extra routes.
func (s *Server) App() *fiber.App {
	return s.app
}

// Close shuts the service down.
func (s *Server) Close() {
	s.http.Close()
	_ = s.app.Shutdown()
}

// AddUser registers user with password and returns it with its id set.
// The id is derived from the email, so re-adding a user is stable.
func (s *Server) AddUser(user authstate.User, password string) (authstate.User, error) {
	email := normalizeEmail(user.Email)
	if email == "" {
		return authstate.User{}, errors.New("authtest: user email is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return authstate.User{}, fmt.Errorf("authtest: hash password: %w", err)
	}

	if user.ID == "" {
		id, err := hashid.NewUUID(email)
		if err != nil {
			return authstate.User{}, fmt.Errorf("authtest: user id: %w", err)
		}
		user.ID = id.String()
	}

	s.mu.Lock()
	s.accounts[email] = &account{user: user, passwordHash: string(hash)}
	s.mu.Unlock()

	return user, nil
}

// User returns the stored profile for email.
func (s *Server) User(email string) (authstate.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[normalizeEmail(email)]
	if !ok {
		return authstate.User{}, false
	}
	return acc.user, true
}

// FailNext makes the next request to path answer with status and a JSON
// error body carrying message.
func (s *Server) FailNext(path string, status int, message string) {
	body := fmt.Sprintf(`{"success":false,"message":%q}`, message)
	s.FailNextRaw(path, status, body)
}

// FailNextRaw makes the next request to path answer with status and the
// raw body, which need not be JSON.
func (s *Server) FailNextRaw(path string, status int, body string) {
	s.mu.Lock()
	s.failures[path] = append(s.failures[path], failure{status: status, body: body})
	s.mu.Unlock()
}

// Calls returns the requests observed so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many requests hit path.
func (s *Server) CallCount(path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) popFailure(path string) (failure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := s.failures[path]
	if len(queue) == 0 {
		return failure{}, false
	}
	f := queue[0]
	s.failures[path] = queue[1:]
	return f, true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Server) issueToken(userID string) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	return token, expires, err
}

func (s *Server) parseToken(raw string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	_, revoked := s.revoked[claims.ID]
	s.mu.Unlock()
	if revoked {
		return nil, errors.New("token revoked")
	}

	return claims, nil
}

func (s *Server) accountByID(id string) (*account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.user.ID == id {
			return acc, true
		}
	}
	return nil, false
}
