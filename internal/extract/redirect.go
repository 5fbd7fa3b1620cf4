package extract

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
)

var redirectPattern = regexp.MustCompile(`^(https?)://([^/?#]+)/music/([^/?#]+)/\+similar`)

// Redirect is the target of a similar-artists redirect.
type Redirect struct {
	// Host is the authority from the Location, possibly with a port.
	Host string

	// Name is the raw, still encoded artist segment.
	Name string

	// Secure is set for an https Location.
	Secure bool
}

// HostPort splits Host. Without an explicit port the default port of the
// scheme is returned.
func (r Redirect) HostPort() (string, uint16) {
	host, port, err := net.SplitHostPort(r.Host)
	if err != nil {
		return r.Host, r.defaultPort()
	}
	n, err := strconv.ParseUint(port, 10, 16)
	if err != nil || n == 0 {
		return host, r.defaultPort()
	}
	return host, uint16(n)
}

func (r Redirect) defaultPort() uint16 {
	if r.Secure {
		return 443
	}
	return 80
}

// ParseRedirect extracts host and artist from a Location of the form
// scheme://host/music/<name>/+similar[...].
func ParseRedirect(location string) (Redirect, error) {
	m := redirectPattern.FindStringSubmatch(location)
	if m == nil {
		return Redirect{}, fmt.Errorf("%w (%s)", ErrInvalidRedirect, location)
	}
	return Redirect{Host: m[2], Name: m[3], Secure: m[1] == "https"}, nil
}
