package helpproject

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names the byte encoding used for one emitted file.
type Encoding int

// Supported encodings.
const (
	UTF8 Encoding = iota
	Latin1
)

// Encoding policy per emitted file.
const (
	ContentsEncoding = Latin1 // .hhc
	ProjectEncoding  = Latin1 // .hhp
	PageEncoding     = UTF8   // generated .html pages
)

// unmappable replaces runes that Latin-1 cannot represent.
const unmappable = '?'

// lineEnding terminates every line of the legacy files.
const lineEnding = "\r\n"

// filePermissions is used for every emitted file.
const filePermissions = 0o644

// String returns the encoding name.
func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "utf-8"
	case Latin1:
		return "iso-8859-1"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// Encode converts s to bytes in encoding e.
// Latin-1 output replaces runes outside the code page with '?'.
func (e Encoding) Encode(s string) []byte {
	if e != Latin1 {
		return []byte(s)
	}
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.ISO8859_1.EncodeRune(r)
		if !ok {
			b = unmappable
		}
		out = append(out, b)
	}
	return out
}

// Represents reports whether e can encode s without substituting '?'.
func (e Encoding) Represents(s string) bool {
	if e != Latin1 {
		return true
	}
	for _, r := range s {
		if _, ok := charmap.ISO8859_1.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}

// Decode converts bytes in encoding e back to a UTF-8 string.
func (e Encoding) Decode(b []byte) string {
	if e != Latin1 {
		return string(b)
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = charmap.ISO8859_1.DecodeByte(c)
	}
	return string(runes)
}

// writeEncoded writes text to path using encoding e.
func writeEncoded(path, text string, e Encoding) error {
	// #nosec G306 -- help project files are meant to be readable
	if err := os.WriteFile(path, e.Encode(text), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
