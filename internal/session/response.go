package session

import (
	"bufio"
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"golang.org/x/net/html/charset"
)

// DefaultMaxBodySize caps the bytes read from one response body.
const DefaultMaxBodySize int64 = 5 << 20

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int

	// Reason is the status line text after the code, e.g. "Not Found".
	Reason string

	Proto  string
	Header http.Header

	// Body is the decoded body, converted to UTF-8.
	Body string

	// Close reports that the connection cannot carry another request,
	// either because the server said so or because the body was truncated.
	Close bool
}

// Location returns the Location header.
func (r *Response) Location() string {
	return r.Header.Get("Location")
}

// readResponse reads one response for req from br.
func readResponse(br *bufio.Reader, req *http.Request, limit int64) (*Response, error) {
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}

	hr, err := http.ReadResponse(br, req)
	if err != nil {
		return nil, err
	}
	defer hr.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(hr.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	truncated := int64(len(raw)) > limit
	if truncated {
		raw = raw[:limit]
	}

	body, err := decodeBody(raw, hr.Header.Get("Content-Encoding"), hr.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: hr.StatusCode,
		Reason:     reasonPhrase(hr),
		Proto:      hr.Proto,
		Header:     hr.Header,
		Body:       body,
		Close:      hr.Close || truncated,
	}, nil
}

func reasonPhrase(hr *http.Response) string {
	reason := strings.TrimPrefix(hr.Status, strconv.Itoa(hr.StatusCode))
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = http.StatusText(hr.StatusCode)
	}
	return reason
}

// decodeBody undoes Content-Encoding and converts the charset named in
// contentType (or sniffed from the body) to UTF-8.
func decodeBody(raw []byte, encoding, contentType string) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	var r io.Reader = bytes.NewReader(raw)
	switch enc := strings.ToLower(strings.TrimSpace(encoding)); enc {
	case "", "identity":
	case "gzip", "x-gzip":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return "", fmt.Errorf("gzip decode: %w", err)
		}
		defer gz.Close()
		r = gz
	case "deflate":
		// Servers send both zlib-wrapped and raw deflate under this name.
		if zr, err := zlib.NewReader(bytes.NewReader(raw)); err == nil {
			defer zr.Close()
			r = zr
		} else {
			fr := flate.NewReader(bytes.NewReader(raw))
			defer fr.Close()
			r = fr
		}
	case "br":
		r = brotli.NewReader(r)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedEncoding, enc)
	}

	utf8, err := charset.NewReader(r, contentType)
	if err != nil {
		return "", fmt.Errorf("charset decode: %w", err)
	}
	out, err := io.ReadAll(utf8)
	if err != nil {
		return "", fmt.Errorf("%s decode: %w", encodingName(encoding), err)
	}
	return string(out), nil
}

func encodingName(encoding string) string {
	if encoding == "" {
		return "body"
	}
	return strings.ToLower(encoding)
}
