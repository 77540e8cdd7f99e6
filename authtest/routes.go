package authtest

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	authstate "github.com/goliatone/go-auth-state"
)

const (
	accountLocalsKey = "account"
	tokenLocalsKey   = "token_id"
	bearerScheme     = "Bearer "
)

func (s *Server) registerRoutes() {
	s.app.Use(s.recordCall)
	s.app.Use(s.injectFailure)

	s.app.Post(authstate.PathLogin, s.login)
	s.app.Get(authstate.PathMe, s.requireSession, s.me)
	s.app.Get(authstate.PathLogout, s.requireSession, s.logout)
	s.app.Put(authstate.PathUpdatePassword, s.requireSession, s.updatePassword)
	s.app.Put(authstate.PathUpdateProfile, s.requireSession, s.updateProfile)
}

func (s *Server) recordCall(c *fiber.Ctx) error {
	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Method:    c.Method(),
		Path:      c.Path(),
		RequestID: c.Get(authstate.HeaderRequestID),
		Cookie:    c.Cookies(s.cookieName) != "",
	})
	s.mu.Unlock()
	return c.Next()
}

func (s *Server) injectFailure(c *fiber.Ctx) error {
	f, ok := s.popFailure(c.Path())
	if !ok {
		return c.Next()
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(f.status).SendString(f.body)
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c *fiber.Ctx) error {
	body := new(loginBody)
	if err := c.BodyParser(body); err != nil {
		return fail(c, fiber.StatusBadRequest, MsgProvideCredentials)
	}
	if body.Email == "" || body.Password == "" {
		return fail(c, fiber.StatusBadRequest, MsgProvideCredentials)
	}

	s.mu.Lock()
	acc, ok := s.accounts[normalizeEmail(body.Email)]
	var (
		user authstate.User
		hash string
	)
	if ok {
		user, hash = acc.user, acc.passwordHash
	}
	s.mu.Unlock()
	if !ok {
		return fail(c, fiber.StatusUnauthorized, MsgInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(body.Password)); err != nil {
		return fail(c, fiber.StatusUnauthorized, MsgInvalidCredentials)
	}

	token, expires, err := s.issueToken(user.ID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	c.Cookie(&fiber.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": MsgLoggedIn,
		"user":    user,
	})
}

// sessionToken looks the token up in the session cookie first and then
// in a bearer Authorization header.
func (s *Server) sessionToken(c *fiber.Ctx) string {
	if raw := c.Cookies(s.cookieName); raw != "" {
		return raw
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > len(bearerScheme) && strings.EqualFold(auth[:len(bearerScheme)], bearerScheme) {
		return strings.TrimSpace(auth[len(bearerScheme):])
	}
	return ""
}

func (s *Server) requireSession(c *fiber.Ctx) error {
	raw := s.sessionToken(c)
	if raw == "" {
		return fail(c, fiber.StatusBadRequest, MsgNotAuthenticated)
	}

	claims, err := s.parseToken(raw)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, MsgNotAuthenticated)
	}

	acc, ok := s.accountByID(claims.Subject)
	if !ok {
		return fail(c, fiber.StatusBadRequest, MsgNotAuthenticated)
	}

	c.Locals(accountLocalsKey, acc)
	c.Locals(tokenLocalsKey, claims.ID)
	return c.Next()
}

func current(c *fiber.Ctx) *account {
	acc, _ := c.Locals(accountLocalsKey).(*account)
	return acc
}

func (s *Server) me(c *fiber.Ctx) error {
	acc := current(c)

	s.mu.Lock()
	user := acc.user
	s.mu.Unlock()

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

func (s *Server) logout(c *fiber.Ctx) error {
	if id, ok := c.Locals(tokenLocalsKey).(string); ok && id != "" {
		s.mu.Lock()
		s.revoked[id] = struct{}{}
		s.mu.Unlock()
	}

	c.Cookie(&fiber.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": MsgLoggedOut,
	})
}

type passwordBody struct {
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

func (s *Server) updatePassword(c *fiber.Ctx) error {
	body := new(passwordBody)
	if err := c.BodyParser(body); err != nil {
		return fail(c, fiber.StatusBadRequest, MsgFillAllFields)
	}
	if body.CurrentPassword == "" || body.NewPassword == "" || body.ConfirmNewPassword == "" {
		return fail(c, fiber.StatusBadRequest, MsgFillAllFields)
	}

	acc := current(c)

	s.mu.Lock()
	hash := acc.passwordHash
	s.mu.Unlock()

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(body.CurrentPassword)); err != nil {
		return fail(c, fiber.StatusBadRequest, MsgIncorrectPassword)
	}
	if body.NewPassword != body.ConfirmNewPassword {
		return fail(c, fiber.StatusBadRequest, MsgPasswordMismatch)
	}

	next, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.MinCost)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.mu.Lock()
	acc.passwordHash = string(next)
	s.mu.Unlock()

	return c.JSON(fiber.Map{
		"success": true,
		"message": MsgPasswordUpdated,
	})
}

var profileFields = []string{
	"fullName", "email", "phone", "aboutMe", "portfolioURL",
	"githubURL", "instagramURL", "twitterURL", "linkedInURL", "facebookURL",
}

func (s *Server) updateProfile(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid form data")
	}

	values := map[string]string{}
	for _, name := range profileFields {
		if v, ok := form.Value[name]; ok && len(v) > 0 {
			values[name] = v[0]
		}
	}

	acc := current(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	user := acc.user
	applyProfile(&user, values)
	if fh := firstFile(form, "avatar"); fh != nil {
		user.Avatar = uploadedAsset("avatars", fh)
	}
	if fh := firstFile(form, "resume"); fh != nil {
		user.Resume = uploadedAsset("resumes", fh)
	}

	oldEmail := normalizeEmail(acc.user.Email)
	newEmail := normalizeEmail(user.Email)
	if newEmail == "" {
		user.Email = acc.user.Email
		newEmail = oldEmail
	}
	if newEmail != oldEmail {
		if _, taken := s.accounts[newEmail]; taken {
			return fail(c, fiber.StatusConflict, "Email already in use")
		}
		delete(s.accounts, oldEmail)
		s.accounts[newEmail] = acc
	}
	acc.user = user

	return c.JSON(fiber.Map{
		"success": true,
		"message": MsgProfileUpdated,
	})
}

func applyProfile(u *authstate.User, values map[string]string) {
	set := func(dst *string, key string) {
		if v, ok := values[key]; ok {
			*dst = v
		}
	}
	set(&u.FullName, "fullName")
	set(&u.Email, "email")
	set(&u.Phone, "phone")
	set(&u.AboutMe, "aboutMe")
	set(&u.PortfolioURL, "portfolioURL")
	set(&u.GithubURL, "githubURL")
	set(&u.InstagramURL, "instagramURL")
	set(&u.TwitterURL, "twitterURL")
	set(&u.LinkedInURL, "linkedInURL")
	set(&u.FacebookURL, "facebookURL")
}

func firstFile(form *multipart.Form, field string) *multipart.FileHeader {
	files := form.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

func uploadedAsset(folder string, fh *multipart.FileHeader) authstate.Asset {
	id := fmt.Sprintf("%s/%s", folder, uuid.NewString())
	return authstate.Asset{
		PublicID: id,
		URL:      "/uploads/" + id + filepath.Ext(fh.Filename),
	}
}
