package source

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DefaultEncodings is the ordered fallback list tried when decoding input
// files: strict UTF-8 first, then Latin-1, then Windows-1252. Latin-1 maps
// every byte, so with the default list decoding cannot fail; the list stays
// configurable for stricter datasets.
var DefaultEncodings = []string{"utf-8", "latin-1", "cp1252"}

// DecodeError reports that no encoding in the fallback list decoded the
// input cleanly. Fatal for the file, recoverable at the orchestration level.
type DecodeError struct {
	Tried []string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("no encoding decoded input cleanly (tried %s)", strings.Join(e.Tried, ", "))
}

// DecodeText decodes raw bytes using the default encoding fallback list and
// reports which encoding succeeded.
func DecodeText(data []byte) (string, string, error) {
	return DecodeTextWith(data, DefaultEncodings)
}

// DecodeTextWith tries each named encoding in order and returns the first
// clean decode. Unknown encoding names are skipped.
func DecodeTextWith(data []byte, encodings []string) (text, encoding string, err error) {
	for _, name := range encodings {
		if s, ok := decodeAs(data, name); ok {
			return s, name, nil
		}
	}
	return "", "", &DecodeError{Tried: encodings}
}

func decodeAs(data []byte, name string) (string, bool) {
	switch name {
	case "utf-8":
		if utf8.Valid(data) {
			return string(data), true
		}
	case "latin-1":
		// ISO 8859-1 defines all 256 byte values; decoding never fails.
		return decodeCharmap(data, charmap.ISO8859_1), true
	case "cp1252":
		// Windows-1252 leaves a handful of bytes undefined (0x81, 0x8D,
		// 0x8F, 0x90, 0x9D); their presence means a dirty decode.
		for _, b := range data {
			switch b {
			case 0x81, 0x8D, 0x8F, 0x90, 0x9D:
				return "", false
			}
		}
		return decodeCharmap(data, charmap.Windows1252), true
	}
	return "", false
}

func decodeCharmap(data []byte, cm *charmap.Charmap) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(cm.DecodeByte(b))
	}
	return sb.String()
}
