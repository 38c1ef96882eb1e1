package urlpolicy

import "net/url"

// URL is a URL that passed validation for its class.
// The zero value is not valid; use Validate.
type URL struct {
	raw    string
	parsed *url.URL
	class  Class
	host   string
	owner  string
	repo   string
}

// String returns the URL exactly as it was given.
func (u URL) String() string {
	return u.raw
}

// IsZero reports whether u is the zero value.
func (u URL) IsZero() bool {
	return u.raw == ""
}

// Class returns the class the URL was validated for.
func (u URL) Class() Class {
	return u.class
}

// Host returns the lower-cased ASCII host, without port.
func (u URL) Host() string {
	return u.host
}

// Path returns the decoded URL path.
func (u URL) Path() string {
	if u.parsed == nil {
		return ""
	}
	return u.parsed.Path
}

// Owner returns the repository owner of a Primary URL.
func (u URL) Owner() string {
	return u.owner
}

// Repo returns the repository name of a Primary URL.
func (u URL) Repo() string {
	return u.repo
}

// Parsed returns a copy of the parsed URL.
func (u URL) Parsed() *url.URL {
	if u.parsed == nil {
		return nil
	}
	c := *u.parsed
	if c.User != nil {
		user := *c.User
		c.User = &user
	}
	return &c
}
