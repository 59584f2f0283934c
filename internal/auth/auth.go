package auth

import "net/http"

// Credential selects how outgoing requests authenticate: HTTP basic
// (username+password), a bearer token, or nothing. Username/password
// and token are mutually exclusive at the call site; if both arrive,
// basic auth wins.
type Credential struct {
	Username string
	Password string
	Token    string
}

func (c Credential) IsZero() bool {
	return c.Username == "" && c.Password == "" && c.Token == ""
}

// Apply decorates a single request. Pure header mutation, no I/O.
func (c Credential) Apply(req *http.Request) {
	switch {
	case c.Username != "" && c.Password != "":
		req.SetBasicAuth(c.Username, c.Password)
	case c.Token != "":
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

func (c Credential) Describe() string {
	switch {
	case c.Username != "" && c.Password != "":
		return "basic auth (user: " + c.Username + ")"
	case c.Token != "":
		return "bearer token"
	default:
		return "none"
	}
}
