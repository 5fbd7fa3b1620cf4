package extract

import (
	"iter"
	"regexp"
)

// DefaultPattern matches artist links such as href="/music/Foo+Bar". The
// capture excludes '/' and '.', so album, track and asset links are
// skipped.
const DefaultPattern = `href="/music/([^/.]+?)"`

// Pattern finds artist tokens in a page body.
type Pattern struct {
	re *regexp.Regexp
}

// NewPattern compiles expr. The first capture group is the token.
func NewPattern(expr string) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Pattern{re: re}, nil
}

// MustPattern is NewPattern that panics on error.
func MustPattern(expr string) *Pattern {
	p, err := NewPattern(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Default returns the artist link pattern.
func Default() *Pattern {
	return MustPattern(DefaultPattern)
}

// Tokens yields the first capture of every non-overlapping match in body,
// in document order. Matches are found lazily, so stopping early skips the
// rest of the body.
func (p *Pattern) Tokens(body string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for pos := 0; pos < len(body); {
			loc := p.re.FindStringSubmatchIndex(body[pos:])
			if loc == nil {
				return
			}
			token := ""
			if len(loc) >= 4 && loc[2] >= 0 {
				token = body[pos+loc[2] : pos+loc[3]]
			}
			if !yield(token) {
				return
			}
			if loc[1] == 0 {
				pos++
				continue
			}
			pos += loc[1]
		}
	}
}

// Scan returns the tokens of body, or ErrNoMatches when there are none.
func (p *Pattern) Scan(body string) (iter.Seq[string], error) {
	if !p.re.MatchString(body) {
		return nil, ErrNoMatches
	}
	return p.Tokens(body), nil
}
