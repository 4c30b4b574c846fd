package domain

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is the bearer credential plus the profile it was issued for.
type Session struct {
	AccessToken string `json:"access_token" yaml:"access_token"`
	User        User   `json:"user" yaml:"user"`
}
