package usecase

import (
	"fmt"
	"strings"
)

// ValidationKind classifies why an uploaded file was rejected.
type ValidationKind int

const (
	KindEmptyInput ValidationKind = iota + 1
	KindDecoding
	KindMissingColumn
	KindInvalidNumber
	KindEmptyField
	KindMalformedRow
)

func (k ValidationKind) String() string {
	switch k {
	case KindEmptyInput:
		return "EMPTY_INPUT"
	case KindDecoding:
		return "DECODING_ERROR"
	case KindMissingColumn:
		return "MISSING_COLUMN"
	case KindInvalidNumber:
		return "INVALID_NUMBER"
	case KindEmptyField:
		return "EMPTY_FIELD"
	case KindMalformedRow:
		return "MALFORMED_ROW"
	default:
		return "UNKNOWN"
	}
}

// ValidationError is the first violation found in an uploaded file. Its
// message is meant for the uploader.
type ValidationError struct {
	Kind     ValidationKind
	Row      int // 1-based data row, 0 for the header or the whole file
	Column   string
	Value    string
	Encoding string
	Err      error
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindEmptyInput:
		return "Empty CSV file"
	case KindDecoding:
		if e.Encoding == "" || strings.EqualFold(e.Encoding, DefaultEncoding) {
			return "File is not valid UTF-8 text"
		}
		return fmt.Sprintf("File could not be decoded as %s", e.Encoding)
	case KindMissingColumn:
		return "Missing column: " + e.Column
	case KindInvalidNumber:
		return fmt.Sprintf("Invalid number in row %d, column %s: %q", e.Row, e.Column, e.Value)
	case KindEmptyField:
		return fmt.Sprintf("Empty value in row %d, column %s", e.Row, e.Column)
	case KindMalformedRow:
		if e.Row == 0 {
			return "Malformed CSV header"
		}
		return fmt.Sprintf("Malformed CSV at row %d", e.Row)
	default:
		return "Invalid CSV file"
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StorageError reports a persistence failure while committing an upload.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
