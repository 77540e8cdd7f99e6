package authstate_test

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	authstate "github.com/goliatone/go-auth-state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readForm(t *testing.T, body []byte, contentType string) *multipart.Form {
	t.Helper()

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	form, err := multipart.NewReader(bytes.NewReader(body), params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form
}

func TestProfileFormWriteMultipartSendsAllFields(t *testing.T) {
	form := authstate.ProfileFormFromUser(authstate.User{
		FullName:  "Alice Example",
		Email:     "alice@example.com",
		GithubURL: "https://github.com/alice",
	})

	var buf bytes.Buffer
	contentType, err := form.WriteMultipart(&buf)
	require.NoError(t, err)

	parsed := readForm(t, buf.Bytes(), contentType)

	for _, name := range []string{
		"fullName", "email", "phone", "aboutMe", "portfolioURL",
		"githubURL", "instagramURL", "twitterURL", "linkedInURL", "facebookURL",
	} {
		assert.Contains(t, parsed.Value, name)
	}
	assert.Equal(t, []string{"Alice Example"}, parsed.Value["fullName"])
	assert.Equal(t, []string{"https://github.com/alice"}, parsed.Value["githubURL"])
	assert.Equal(t, []string{""}, parsed.Value["phone"])
	assert.Empty(t, parsed.File)
}

func TestProfileFormWriteMultipartFiles(t *testing.T) {
	form := authstate.ProfileForm{
		FullName: "Alice",
		Avatar: &authstate.FileUpload{
			Filename:    "/tmp/uploads/me.png",
			ContentType: "image/png",
			Content:     strings.NewReader("png-bytes"),
		},
		Resume: &authstate.FileUpload{
			Filename: `cv "final".pdf`,
			Content:  strings.NewReader("pdf-bytes"),
		},
	}

	var buf bytes.Buffer
	contentType, err := form.WriteMultipart(&buf)
	require.NoError(t, err)

	parsed := readForm(t, buf.Bytes(), contentType)

	require.Len(t, parsed.File["avatar"], 1)
	avatar := parsed.File["avatar"][0]
	assert.Equal(t, "me.png", avatar.Filename)
	assert.Equal(t, "image/png", avatar.Header.Get("Content-Type"))

	f, err := avatar.Open()
	require.NoError(t, err)
	content, _ := io.ReadAll(f)
	_ = f.Close()
	assert.Equal(t, "png-bytes", string(content))

	require.Len(t, parsed.File["resume"], 1)
	resume := parsed.File["resume"][0]
	assert.Equal(t, `cv "final".pdf`, resume.Filename)
	assert.Equal(t, "application/octet-stream", resume.Header.Get("Content-Type"))
}

func TestProfileFormSkipsEmptyUploads(t *testing.T) {
	form := authstate.ProfileForm{
		FullName: "Alice",
		Avatar:   &authstate.FileUpload{Filename: "me.png"},
	}

	var buf bytes.Buffer
	contentType, err := form.WriteMultipart(&buf)
	require.NoError(t, err)

	assert.Empty(t, readForm(t, buf.Bytes(), contentType).File)
}

func TestProfileFormValidate(t *testing.T) {
	valid := authstate.ProfileForm{
		FullName:     "Alice Example",
		Email:        "alice@example.com",
		Phone:        "+1 650-253-0000",
		PortfolioURL: "https://alice.dev",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		edit  func(*authstate.ProfileForm)
		field string
	}{
		{"missing name", func(f *authstate.ProfileForm) { f.FullName = "" }, "FullName"},
		{"bad email", func(f *authstate.ProfileForm) { f.Email = "alice" }, "Email"},
		{"bad phone", func(f *authstate.ProfileForm) { f.Phone = "12" }, "Phone"},
		{"bad url", func(f *authstate.ProfileForm) { f.TwitterURL = "not a url" }, "TwitterURL"},
		{"about too long", func(f *authstate.ProfileForm) { f.AboutMe = strings.Repeat("x", 2001) }, "AboutMe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.edit(&form)

			err := form.Validate()
			require.Error(t, err)

			errs, ok := err.(validation.Errors)
			require.True(t, ok)
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	rule := authstate.ValidatePhoneNumber("US")

	assert.NoError(t, rule(""))
	assert.NoError(t, rule("  "))
	assert.NoError(t, rule("(650) 253-0000"))
	assert.NoError(t, rule("+33 1 42 68 53 00"))
	assert.Error(t, rule("123"))
	assert.Error(t, rule("phone"))
}

func TestPayloadValidation(t *testing.T) {
	assert.NoError(t, authstate.LoginPayload{Email: "a@b.com", Password: "pw"}.Validate())
	assert.Error(t, authstate.LoginPayload{Email: "a@b.com"}.Validate())
	assert.Error(t, authstate.LoginPayload{Email: "nope", Password: "pw"}.Validate())

	ok := authstate.PasswordUpdatePayload{CurrentPassword: "old", NewPassword: "long-enough", ConfirmNewPassword: "long-enough"}
	assert.NoError(t, ok.Validate())

	short := ok
	short.NewPassword, short.ConfirmNewPassword = "short", "short"
	assert.Error(t, short.Validate())

	mismatch := ok
	mismatch.ConfirmNewPassword = "something-else"
	err := mismatch.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "values must match")
}
