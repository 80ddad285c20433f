package traversal

import (
	"bytes"
	"errors"
	"io"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// SniffLength is the number of leading bytes inspected by the binary heuristic.
const SniffLength = 8000

// IsBinary reports whether data looks like binary content: it holds a NUL
// byte or is not valid UTF-8. When truncated is set the data is a prefix of a
// longer file and a multi-byte sequence cut at the end is not held against it.
func IsBinary(data []byte, truncated bool) bool {
	if len(data) == 0 {
		return false
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return true
	}
	if truncated {
		data = trimIncompleteRune(data)
	}
	return !utf8.Valid(data)
}

// trimIncompleteRune drops a trailing partial UTF-8 sequence.
func trimIncompleteRune(data []byte) []byte {
	for tailLength := 1; tailLength < utf8.UTFMax && tailLength <= len(data); tailLength++ {
		runeStart := len(data) - tailLength
		if !utf8.RuneStart(data[runeStart]) {
			continue
		}
		if utf8.FullRune(data[runeStart:]) {
			return data
		}
		return data[:runeStart]
	}
	return data
}

// SniffFile reads up to SniffLength bytes of the file at filePath and reports
// whether the file continues past the prefix.
func SniffFile(fileSystem afero.Fs, filePath string) ([]byte, bool, error) {
	fileHandle, openError := fileSystem.Open(filePath)
	if openError != nil {
		return nil, false, openError
	}
	defer fileHandle.Close()

	buffer := make([]byte, SniffLength+1)
	bytesRead, readError := io.ReadFull(fileHandle, buffer)
	if readError != nil && !errors.Is(readError, io.EOF) && !errors.Is(readError, io.ErrUnexpectedEOF) {
		return nil, false, readError
	}
	if bytesRead > SniffLength {
		return buffer[:SniffLength], true, nil
	}
	return buffer[:bytesRead], false, nil
}
