package authstate

// Asset is a file hosted by the user service (avatar, resume).
type Asset struct {
	PublicID string `json:"public_id,omitempty"`
	URL      string `json:"url,omitempty"`
}

// User is the authenticated profile as returned by the user service.
type User struct {
	ID           string `json:"_id,omitempty"`
	FullName     string `json:"fullName,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	AboutMe      string `json:"aboutMe,omitempty"`
	Avatar       Asset  `json:"avatar,omitempty"`
	Resume       Asset  `json:"resume,omitempty"`
	PortfolioURL string `json:"portfolioURL,omitempty"`
	GithubURL    string `json:"githubURL,omitempty"`
	InstagramURL string `json:"instagramURL,omitempty"`
	TwitterURL   string `json:"twitterURL,omitempty"`
	LinkedInURL  string `json:"linkedInURL,omitempty"`
	FacebookURL  string `json:"facebookURL,omitempty"`
}

// IsEmpty reports whether u carries no profile data.
func (u User) IsEmpty() bool {
	return u == User{}
}

// SessionState is the authentication record exposed to the application.
// An empty Error or Message means the field is unset.
type SessionState struct {
	Loading         bool   `json:"loading"`
	User            User   `json:"user"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	Error           string `json:"error,omitempty"`
	Message         string `json:"message,omitempty"`
	IsUpdated       bool   `json:"isUpdated"`
}

// HasError reports whether the last operation left an error behind.
func (s SessionState) HasError() bool {
	return s.Error != ""
}

// InitialState is the state of a freshly created store.
func InitialState() SessionState {
	return SessionState{}
}
