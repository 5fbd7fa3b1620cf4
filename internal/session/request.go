package session

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
)

// DefaultUserAgent is sent when the request carries no User-Agent header.
const DefaultUserAgent = "lssa"

// Request is the mutable request the crawler reuses between pages.
type Request struct {
	// Method defaults to GET.
	Method string

	// Path is the request target without the query string.
	Path string

	// Params are encoded into the query string in sorted key order.
	Params url.Values

	// Header holds the request headers. A Host entry overrides the
	// connection address in the Host line.
	Header http.Header

	// KeepAlive asks the server to keep the connection open.
	KeepAlive bool
}

// NewRequest returns a keep-alive GET with empty params and headers.
func NewRequest() *Request {
	return &Request{
		Method:    http.MethodGet,
		Params:    url.Values{},
		Header:    http.Header{},
		KeepAlive: true,
	}
}

// Target returns the path with the encoded query string.
func (r *Request) Target() string {
	if len(r.Params) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Params.Encode()
}

// Clone returns a deep copy of r.
func (r *Request) Clone() *Request {
	c := *r
	c.Params = make(url.Values, len(r.Params))
	for k, v := range r.Params {
		c.Params[k] = slices.Clone(v)
	}
	c.Header = r.Header.Clone()
	if c.Header == nil {
		c.Header = http.Header{}
	}
	return &c
}

// build converts r into the net/http form used for the wire encoding.
func (r *Request) build(address string) (*http.Request, error) {
	target := r.Target()
	if target == "" {
		target = "/"
	}
	u, err := url.ParseRequestURI(target)
	if err != nil {
		return nil, fmt.Errorf("invalid request target %q: %w", target, err)
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	header := r.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	host := header.Get("Host")
	if host == "" {
		host = address
	}
	header.Del("Host")
	if header.Get("User-Agent") == "" {
		header.Set("User-Agent", DefaultUserAgent)
	}

	return &http.Request{
		Method:     method,
		URL:        u,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     header,
		Host:       host,
		Close:      !r.KeepAlive,
	}, nil
}
