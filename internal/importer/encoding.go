package importer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding names reported in ImportResult.Encoding.
const (
	EncodingUTF8        = "utf-8"
	EncodingUTF8BOM     = "utf-8-sig"
	EncodingWindows874  = "windows-874"
	EncodingWindows1252 = "windows-1252"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// legacyEncodings are tried in order when the data is not valid UTF-8.
// Thai schedules are exported as Windows-874 by older Excel versions.
var legacyEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{EncodingWindows874, charmap.Windows874},
	{EncodingWindows1252, charmap.Windows1252},
}

// DecodeText converts raw file bytes to a UTF-8 string. UTF-8 (with or
// without a byte-order mark) is used when valid; otherwise the legacy code
// pages are tried in order and the first one that maps every byte wins.
func DecodeText(data []byte) (string, string, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		rest := data[len(utf8BOM):]
		if utf8.Valid(rest) {
			return string(rest), EncodingUTF8BOM, nil
		}
	}
	if utf8.Valid(data) {
		return string(data), EncodingUTF8, nil
	}

	var firstErr error
	for _, le := range legacyEncodings {
		out, _, err := transform.Bytes(le.enc.NewDecoder(), data)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		text := string(out)
		if !strings.ContainsRune(text, utf8.RuneError) {
			return text, le.name, nil
		}
	}
	if firstErr != nil {
		return "", "", fmt.Errorf("no supported encoding: %w", firstErr)
	}
	return "", "", fmt.Errorf("no supported encoding decodes the data cleanly")
}
