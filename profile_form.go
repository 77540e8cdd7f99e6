package authstate

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used to parse phone numbers without a country prefix.
var DefaultPhoneRegion = "US"

// FileUpload is a binary attachment sent with a profile update.
type FileUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

func (f *FileUpload) empty() bool {
	return f == nil || f.Content == nil
}

// ProfileForm holds the fields of a profile update. All text fields are
// sent, so start from ProfileFormFromUser to keep the current values.
type ProfileForm struct {
	FullName     string
	Email        string
	Phone        string
	AboutMe      string
	PortfolioURL string
	GithubURL    string
	InstagramURL string
	TwitterURL   string
	LinkedInURL  string
	FacebookURL  string

	Avatar *FileUpload
	Resume *FileUpload
}

// ProfileFormFromUser prefills a form with the profile of u.
func ProfileFormFromUser(u User) ProfileForm {
	return ProfileForm{
		FullName:     u.FullName,
		Email:        u.Email,
		Phone:        u.Phone,
		AboutMe:      u.AboutMe,
		PortfolioURL: u.PortfolioURL,
		GithubURL:    u.GithubURL,
		InstagramURL: u.InstagramURL,
		TwitterURL:   u.TwitterURL,
		LinkedInURL:  u.LinkedInURL,
		FacebookURL:  u.FacebookURL,
	}
}

// Validate will validate the form
func (f ProfileForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.Email, validation.Required, is.Email),
		validation.Field(&f.Phone, validation.By(ValidatePhoneNumber(DefaultPhoneRegion))),
		validation.Field(&f.AboutMe, validation.Length(0, 2000)),
		validation.Field(&f.PortfolioURL, is.URL),
		validation.Field(&f.GithubURL, is.URL),
		validation.Field(&f.InstagramURL, is.URL),
		validation.Field(&f.TwitterURL, is.URL),
		validation.Field(&f.LinkedInURL, is.URL),
		validation.Field(&f.FacebookURL, is.URL),
	)
}

// ValidatePhoneNumber accepts empty values and numbers that are valid
// for region, or for their own country prefix.
func ValidatePhoneNumber(region string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return nil
		}
		num, err := phonenumbers.Parse(s, region)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			return fmt.Errorf("must be a valid phone number")
		}
		return nil
	}
}

func (f ProfileForm) fields() [][2]string {
	return [][2]string{
		{"fullName", f.FullName},
		{"email", f.Email},
		{"phone", f.Phone},
		{"aboutMe", f.AboutMe},
		{"portfolioURL", f.PortfolioURL},
		{"githubURL", f.GithubURL},
		{"instagramURL", f.InstagramURL},
		{"twitterURL", f.TwitterURL},
		{"linkedInURL", f.LinkedInURL},
		{"facebookURL", f.FacebookURL},
	}
}

// WriteMultipart encodes the form into w and returns the content type,
// boundary included, to send with it.
func (f ProfileForm) WriteMultipart(w io.Writer) (string, error) {
	mw := multipart.NewWriter(w)

	for _, kv := range f.fields() {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return "", fmt.Errorf("write field %s: %w", kv[0], err)
		}
	}

	if err := writeFile(mw, "avatar", f.Avatar); err != nil {
		return "", err
	}
	if err := writeFile(mw, "resume", f.Resume); err != nil {
		return "", err
	}

	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	return mw.FormDataContentType(), nil
}

func writeFile(mw *multipart.Writer, field string, file *FileUpload) error {
	if file.empty() {
		return nil
	}

	name := filepath.Base(file.Filename)
	if name == "" || name == "." {
		name = field
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, escapeQuotes(name)))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create %s part: %w", field, err)
	}

	if _, err := io.Copy(part, file.Content); err != nil {
		return fmt.Errorf("copy %s: %w", field, err)
	}

	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
