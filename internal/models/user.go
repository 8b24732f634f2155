package models

// Defaults applied when a user leaves the image fields blank.
const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User is an account. Email and the hash stay out of JSON; pages that show an
// address to its owner add it explicitly.
type User struct {
	ID             int    `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"-"`
	PasswordHash   string `json:"-"`
	ImageURL       string `json:"image_url"`
	HeaderImageURL string `json:"header_image_url"`
	Bio            string `json:"bio"`
	Location       string `json:"location"`
}

// WithDefaults fills blank image fields with the site defaults.
func (u User) WithDefaults() User {
	if u.ImageURL == "" {
		u.ImageURL = DefaultImageURL
	}
	if u.HeaderImageURL == "" {
		u.HeaderImageURL = DefaultHeaderImageURL
	}
	return u
}

// UserProfile is the read model behind a profile page.
type UserProfile struct {
	User           User      `json:"user"`
	Messages       []Message `json:"messages"`
	MessageCount   int       `json:"message_count"`
	FollowingCount int       `json:"following_count"`
	FollowersCount int       `json:"followers_count"`
}
