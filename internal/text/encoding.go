// Package text holds the Text model shared by every operation: the
// Frequencies result and the decoding of raw bytes into valid UTF-8.
package text

import (
	"bytes"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type Encoding string

const (
	EncodingASCII       Encoding = "ascii"
	EncodingUTF8        Encoding = "utf-8"
	EncodingUTF16LE     Encoding = "utf-16le"
	EncodingUTF16BE     Encoding = "utf-16be"
	EncodingWindows1252 Encoding = "windows-1252"
)

type Detection struct {
	Encoding Encoding `json:"encoding"`
	HasBOM   bool     `json:"has_bom"`
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

func Detect(data []byte) Detection {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return Detection{Encoding: EncodingUTF8, HasBOM: true}
	case bytes.HasPrefix(data, bomUTF16LE):
		return Detection{Encoding: EncodingUTF16LE, HasBOM: true}
	case bytes.HasPrefix(data, bomUTF16BE):
		return Detection{Encoding: EncodingUTF16BE, HasBOM: true}
	}

	if isASCII(data) {
		return Detection{Encoding: EncodingASCII}
	}
	if utf8.Valid(data) {
		return Detection{Encoding: EncodingUTF8}
	}
	return Detection{Encoding: EncodingWindows1252}
}

// Decode turns raw input into Text. The result is always valid UTF-8;
// undecodable sequences become U+FFFD.
func Decode(data []byte) (string, Detection) {
	detected := Detect(data)
	return normalize(data, detected), detected
}

// Valid returns s unchanged when it is valid UTF-8; otherwise each run of
// invalid bytes becomes a single U+FFFD.
func Valid(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "\uFFFD")
}

func ReadFile(path string) (string, Detection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", Detection{}, err
	}
	content, detected := Decode(data)
	return content, detected, nil
}

func normalize(data []byte, detected Detection) string {
	data = stripBOM(data, detected)

	switch detected.Encoding {
	case EncodingASCII:
		return string(data)
	case EncodingUTF16LE:
		return decodeWithFallback(data, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder())
	case EncodingUTF16BE:
		return decodeWithFallback(data, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder())
	case EncodingWindows1252:
		return decodeWithFallback(data, charmap.Windows1252.NewDecoder())
	default:
		return string(bytes.ToValidUTF8(data, []byte("\uFFFD")))
	}
}

func stripBOM(data []byte, detected Detection) []byte {
	if !detected.HasBOM {
		return data
	}

	switch detected.Encoding {
	case EncodingUTF8:
		return bytes.TrimPrefix(data, bomUTF8)
	case EncodingUTF16LE:
		return bytes.TrimPrefix(data, bomUTF16LE)
	case EncodingUTF16BE:
		return bytes.TrimPrefix(data, bomUTF16BE)
	}
	return data
}

func decodeWithFallback(data []byte, decoder *encoding.Decoder) string {
	if len(data) == 0 {
		return ""
	}

	reader := transform.NewReader(bytes.NewReader(data), decoder)
	result, err := io.ReadAll(reader)
	if err != nil {
		return string(bytes.ToValidUTF8(data, []byte("\uFFFD")))
	}

	return string(bytes.ToValidUTF8(result, []byte("\uFFFD")))
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
