package domain

// Token is the credential pair returned by a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Session pairs a bearer token with the username it authenticates.
// A Session is either fully populated or absent.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Valid reports whether both halves of the session are present.
func (s Session) Valid() bool {
	return s.Token != "" && s.Username != ""
}
