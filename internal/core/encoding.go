package core

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// readLimited reads all of r, failing with ErrFileTooLarge once more than
// limit bytes arrive. The declared size of an upload can lie; this cannot.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// cleanText strips a leading UTF-8 BOM and replaces invalid UTF-8 with
// U+FFFD. Spreadsheets exported from Windows tools commonly carry both.
func cleanText(data []byte) []byte {
	data = bytes.TrimPrefix(data, byteOrderMark)
	return sanitizeUTF8(data)
}

func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
		} else {
			buf.Write(data[:size])
		}
		data = data[size:]
	}

	return buf.Bytes()
}
