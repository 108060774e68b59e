package model

// Session holds the signed-in user's identity and session token.
type Session struct {
	// Token is the bearer token used for REST calls and the push
	// channel. Empty means signed out.
	Token string `json:"token"`

	// Username is the signed-in user's login name.
	Username string `json:"username"`

	// Moderator reports whether the user may work the report queue.
	Moderator bool `json:"moderator"`
}

// Valid reports whether the session carries a usable token.
func (s Session) Valid() bool {
	return s.Token != ""
}

// Captcha is a server-issued challenge shown on the login and
// registration forms.
type Captcha struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}
