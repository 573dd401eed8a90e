// Package encoding normalizes uploaded text files to UTF-8. Price lists
// exported from spreadsheet tools on Windows tills rarely arrive as UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF8BOM     Charset = "UTF-8-BOM"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO8859_9   Charset = "ISO-8859-9"
)

// sniffSize bounds how much of the input detection looks at.
const sniffSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode wraps r in a reader yielding UTF-8 and reports which charset the
// input was read as. A byte order mark wins, then valid UTF-8, then the
// chardet guess, then Windows-1252.
func Decode(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("sniffing encoding: %w", err)
	}

	cs := Detect(head)

	if cs == UTF8BOM {
		_, _ = br.Discard(len(bomUTF8))
	}

	dec := decoder(cs)
	if dec == nil {
		return br, cs, nil
	}

	return transform.NewReader(br, dec.NewDecoder()), cs, nil
}

// NewUTF8Reader is Decode without the charset.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	out, _, err := Decode(r)
	return out, err
}

// Detect guesses the charset of a file from its first bytes.
func Detect(head []byte) Charset {
	switch {
	case bytes.HasPrefix(head, bomUTF8):
		return UTF8BOM
	case bytes.HasPrefix(head, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(head, bomUTF16BE):
		return UTF16BE
	case utf8.Valid(head):
		return UTF8
	}

	res, err := chardet.NewTextDetector().DetectBest(head)
	if err != nil {
		return Windows1252
	}

	switch res.Charset {
	case "UTF-8":
		return UTF8
	case "ISO-8859-9":
		return ISO8859_9
	}

	// ISO-8859-1 is read as its Windows superset.
	return Windows1252
}

// decoder returns nil for charsets already readable as UTF-8.
func decoder(cs Charset) encoding.Encoding {
	switch cs {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case Windows1252:
		return charmap.Windows1252
	case ISO8859_9:
		return charmap.ISO8859_9
	}

	return nil
}
