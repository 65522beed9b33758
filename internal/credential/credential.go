package credential

import (
	"errors"
	"net/http"
)

// Authentication schemes supported by a credential profile.
const (
	SchemeBasic  = "basic"
	SchemeBearer = "bearer"
)

var ErrUnknownScheme = errors.New("unknown auth scheme")

// Profile is a named set of credentials for the monitoring API.
type Profile struct {
	Name     string `json:"name"`
	Scheme   string `json:"scheme"` // "basic" or "bearer"
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`
}

// Summary is a Profile with the secrets removed.
type Summary struct {
	Name     string `json:"name"`
	Scheme   string `json:"scheme"`
	Username string `json:"username,omitempty"`
}

// Summarize returns a Summary without sensitive fields.
func (p *Profile) Summarize() Summary {
	return Summary{Name: p.Name, Scheme: p.Scheme, Username: p.Username}
}

// Validate checks that the profile carries what its scheme needs.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return errors.New("profile name is required")
	}
	switch p.Scheme {
	case SchemeBasic:
		if p.Username == "" {
			return errors.New("basic auth requires a username")
		}
	case SchemeBearer:
		if p.Token == "" {
			return errors.New("bearer auth requires a token")
		}
	default:
		return ErrUnknownScheme
	}
	return nil
}

// Apply sets the Authorization header on req.
func (p *Profile) Apply(req *http.Request) {
	switch p.Scheme {
	case SchemeBasic:
		req.SetBasicAuth(p.Username, p.Password)
	case SchemeBearer:
		req.Header.Set("Authorization", "Bearer "+p.Token)
	}
}

// Provider is the interface for credential storage backends.
type Provider interface {
	List() ([]Summary, error)
	Get(name string) (*Profile, error)
	Add(p Profile) error
	Remove(name string) error
}
