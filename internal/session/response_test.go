package session

import (
	"bufio"
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
)

func rawResponse(status, header string, body []byte) string {
	var b strings.Builder
	b.WriteString("HTTP/1.1 " + status + "\r\n")
	b.WriteString(header)
	b.WriteString("Content-Length: " + strconv.Itoa(len(body)) + "\r\n\r\n")
	b.Write(body)
	return b.String()
}

func compress(t *testing.T, encoding, s string) []byte {
	t.Helper()

	var buf bytes.Buffer
	var w interface {
		Write([]byte) (int, error)
		Close() error
	}
	switch encoding {
	case "gzip":
		w = gzip.NewWriter(&buf)
	case "zlib":
		w = zlib.NewWriter(&buf)
	case "flate":
		fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			t.Fatalf("flate writer: %v", err)
		}
		w = fw
	case "br":
		w = brotli.NewWriter(&buf)
	default:
		t.Fatalf("unknown encoding %q", encoding)
	}
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("compress close: %v", err)
	}
	return buf.Bytes()
}

func read(t *testing.T, raw string, limit int64) (*Response, error) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, "http://example.com/", nil)
	return readResponse(bufio.NewReader(strings.NewReader(raw)), req, limit)
}

func TestReadResponseEncodings(t *testing.T) {
	t.Parallel()

	const page = `<a href="/music/Foo">Foo</a>`
	tests := []struct {
		name     string
		header   string
		encoding string
	}{
		{"identity", "", ""},
		{"gzip", "Content-Encoding: gzip\r\n", "gzip"},
		{"zlib deflate", "Content-Encoding: deflate\r\n", "zlib"},
		{"raw deflate", "Content-Encoding: deflate\r\n", "flate"},
		{"brotli", "Content-Encoding: br\r\n", "br"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			body := []byte(page)
			if tt.encoding != "" {
				body = compress(t, tt.encoding, page)
			}
			res, err := read(t, rawResponse("200 OK", tt.header+"Content-Type: text/html; charset=utf-8\r\n", body), 0)
			if err != nil {
				t.Fatalf("readResponse: %v", err)
			}
			if res.Body != page {
				t.Errorf("Body = %q, want %q", res.Body, page)
			}
		})
	}
}

func TestReadResponseStatusLine(t *testing.T) {
	t.Parallel()

	t.Run("reason phrase", func(t *testing.T) {
		t.Parallel()

		res, err := read(t, rawResponse("301 Moved Permanently", "Location: https://www.last.fm/music/Foo/+similar\r\n", nil), 0)
		if err != nil {
			t.Fatalf("readResponse: %v", err)
		}
		if res.StatusCode != 301 || res.Reason != "Moved Permanently" {
			t.Errorf("got %d %q", res.StatusCode, res.Reason)
		}
		if res.Location() != "https://www.last.fm/music/Foo/+similar" {
			t.Errorf("Location() = %q", res.Location())
		}
		if res.Body != "" {
			t.Errorf("Body = %q, want empty", res.Body)
		}
	})

	t.Run("missing reason uses status text", func(t *testing.T) {
		t.Parallel()

		res, err := read(t, rawResponse("404", "", nil), 0)
		if err != nil {
			t.Fatalf("readResponse: %v", err)
		}
		if res.Reason != "Not Found" {
			t.Errorf("Reason = %q", res.Reason)
		}
	})

	t.Run("connection close", func(t *testing.T) {
		t.Parallel()

		res, err := read(t, rawResponse("200 OK", "Connection: close\r\n", []byte("x")), 0)
		if err != nil {
			t.Fatalf("readResponse: %v", err)
		}
		if !res.Close {
			t.Error("Close = false for Connection: close")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		if _, err := read(t, "garbage\r\n\r\n", 0); err == nil {
			t.Error("expected error for malformed status line")
		}
	})
}

func TestReadResponseLimit(t *testing.T) {
	t.Parallel()

	res, err := read(t, rawResponse("200 OK", "", []byte("0123456789")), 4)
	if err != nil {
		t.Fatalf("readResponse: %v", err)
	}
	if res.Body != "0123" {
		t.Errorf("Body = %q, want %q", res.Body, "0123")
	}
	if !res.Close {
		t.Error("truncated response must close the connection")
	}
}

func TestReadResponseChunked(t *testing.T) {
	t.Parallel()

	raw := "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n"
	res, err := read(t, raw, 0)
	if err != nil {
		t.Fatalf("readResponse: %v", err)
	}
	if res.Body != "hello world" {
		t.Errorf("Body = %q", res.Body)
	}
}

func TestDecodeBody(t *testing.T) {
	t.Parallel()

	t.Run("latin1 is converted", func(t *testing.T) {
		t.Parallel()

		got, err := decodeBody([]byte("caf\xe9"), "", "text/html; charset=iso-8859-1")
		if err != nil {
			t.Fatalf("decodeBody: %v", err)
		}
		if got != "café" {
			t.Errorf("decodeBody() = %q, want %q", got, "café")
		}
	})

	t.Run("unknown encoding", func(t *testing.T) {
		t.Parallel()

		_, err := decodeBody([]byte("x"), "compress", "")
		if !errors.Is(err, ErrUnsupportedEncoding) {
			t.Errorf("expected ErrUnsupportedEncoding, got %v", err)
		}
	})

	t.Run("corrupt gzip", func(t *testing.T) {
		t.Parallel()

		if _, err := decodeBody([]byte("not gzip"), "gzip", ""); err == nil {
			t.Error("expected gzip error")
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		got, err := decodeBody(nil, "gzip", "")
		if err != nil || got != "" {
			t.Errorf("decodeBody(nil) = %q, %v", got, err)
		}
	})
}

func TestRequestBuild(t *testing.T) {
	t.Parallel()

	req := NewRequest()
	req.Path = "/music/Foo+Bar/+similar"
	req.Params.Set("page", "2")
	req.Header.Set("host", "www.last.fm")
	req.Header.Set("accept", "text/html")

	hr, err := req.build("127.0.0.1:8080")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var buf bytes.Buffer
	if err := hr.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	wire := buf.String()

	for _, want := range []string{
		"GET /music/Foo+Bar/+similar?page=2 HTTP/1.1\r\n",
		"Host: www.last.fm\r\n",
		"Accept: text/html\r\n",
		"User-Agent: " + DefaultUserAgent + "\r\n",
	} {
		if !strings.Contains(wire, want) {
			t.Errorf("request missing %q:\n%s", want, wire)
		}
	}
	if strings.Contains(wire, "Connection: close") {
		t.Error("keep-alive request sent Connection: close")
	}

	t.Run("default host and close", func(t *testing.T) {
		t.Parallel()

		r := NewRequest()
		r.Path = "/"
		r.KeepAlive = false
		hr, err := r.build("example.com")
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if hr.Host != "example.com" || !hr.Close {
			t.Errorf("Host = %q, Close = %v", hr.Host, hr.Close)
		}
	})

	t.Run("clone is independent", func(t *testing.T) {
		t.Parallel()

		c := req.Clone()
		c.Params.Set("page", "9")
		c.Header.Set("Accept", "*/*")
		if req.Params.Get("page") == "9" || req.Header.Get("Accept") == "*/*" {
			t.Error("Clone shares state with the original")
		}
	})
}
