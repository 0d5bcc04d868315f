package domain

// User holds the registration fields accepted by the API.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProtectedData is the payload of the protected test endpoint.
type ProtectedData struct {
	Message string `json:"message"`
	User    string `json:"user"`
	UserID  int64  `json:"user_id"`
}

// Message is the generic acknowledgement body returned by write endpoints.
type Message struct {
	Msg string `json:"msg"`
}
