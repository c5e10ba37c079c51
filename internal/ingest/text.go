package ingest

// text.go turns raw file bytes into UTF-8 text.
//
// Exports from Brazilian ERPs are either UTF-8 (often with a BOM written by
// Excel) or Windows-1252. The whole table is held in memory anyway, so the
// content is read once, checked with utf8.Valid and transcoded only when
// needed.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// MaxTableBytes caps the size of a single decoded table.
const MaxTableBytes = 256 << 20

// ErrFileTooLarge is returned when a table exceeds MaxTableBytes.
var ErrFileTooLarge = errors.New("file too large")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Encoding names the character set a table was decoded from.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
)

// ReadText reads r fully and returns its content as UTF-8 with any BOM
// removed. Content that is not valid UTF-8 is decoded as Windows-1252.
func ReadText(r io.Reader) ([]byte, Encoding, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxTableBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > MaxTableBytes {
		return nil, "", fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, MaxTableBytes)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, EncodingUTF8, nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return nil, "", fmt.Errorf("encoding error: %w", err)
	}
	return decoded, EncodingWindows1252, nil
}
