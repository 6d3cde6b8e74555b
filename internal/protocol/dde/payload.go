package dde

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Encoding selects how payload bytes are decoded into a command.
type Encoding int

const (
	// EncodingUTF16 is the payload format of Unicode windows.
	EncodingUTF16 Encoding = iota
	EncodingUTF8
)

func (e Encoding) String() string {
	if e == EncodingUTF8 {
		return "utf-8"
	}
	return "utf-16"
}

func ParseEncoding(raw string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "utf-16", "utf16", "unicode":
		return EncodingUTF16, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	default:
		return EncodingUTF16, fmt.Errorf("dde: unknown payload encoding %q", raw)
	}
}

// DecodePayload decodes a locked payload block up to its NUL terminator.
// Blocks are allocated in whole pages, so bytes after the terminator are
// ignored.
func DecodePayload(data []byte, enc Encoding) (string, error) {
	var dec *encoding.Decoder
	switch enc {
	case EncodingUTF8:
		if i := bytes.IndexByte(data, 0); i >= 0 {
			data = data[:i]
		}
		dec = unicode.UTF8.NewDecoder()
	default:
		data = trimUTF16(data)
		dec = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	}
	out, err := dec.Bytes(data)
	if err != nil {
		return "", fmt.Errorf("dde: decode %s payload: %w", enc, err)
	}
	return string(out), nil
}

func trimUTF16(data []byte) []byte {
	n := len(data) &^ 1
	for i := 0; i+1 < n; i += 2 {
		if data[i] == 0 && data[i+1] == 0 {
			return data[:i]
		}
	}
	return data[:n]
}
