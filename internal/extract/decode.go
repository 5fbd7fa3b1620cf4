package extract

import "strings"

// entityUnescaper undoes the escapes left after URL decoding. Order matters.
var entityUnescaper = strings.NewReplacer(
	"&amp;", "&",
	"%2B", "+",
)

// Decode converts a raw token into a display name.
//
// '+' becomes a space and %XX becomes the byte 0xXX. A '%' that is not
// followed by two hex digits is kept as is. The result then has "&amp;"
// replaced by "&" and "%2B" by "+".
func Decode(raw string) string {
	return entityUnescaper.Replace(unescape(raw))
}

// unescape is a lenient form of url.QueryUnescape that never fails.
func unescape(s string) string {
	if !strings.ContainsAny(s, "+%") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// Decoder memoizes Decode for the tokens of one page.
type Decoder struct {
	cache  map[string]string
	misses int
}

// NewDecoder returns an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{cache: make(map[string]string)}
}

// Decode returns Decode(raw), computing it at most once per distinct raw.
func (d *Decoder) Decode(raw string) string {
	if name, ok := d.cache[raw]; ok {
		return name
	}
	d.misses++
	name := Decode(raw)
	d.cache[raw] = name
	return name
}

// Misses returns how many tokens had to be decoded.
func (d *Decoder) Misses() int {
	return d.misses
}

// Len returns the number of cached tokens.
func (d *Decoder) Len() int {
	return len(d.cache)
}
