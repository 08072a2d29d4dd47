package media

import (
	"errors"
	"fmt"
)

// Kind classifies failures so that delivery layers can choose a response
// without knowing which adapter produced the error.
type Kind int

const (
	// KindInternal is an unexpected condition. Details stay server-side.
	KindInternal Kind = iota
	// KindValidation is missing or malformed user input.
	KindValidation
	// KindExtraction means the extractor could not retrieve or convert the media.
	KindExtraction
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindExtraction:
		return "extraction"
	default:
		return "internal"
	}
}

var (
	// ErrMissingURL is returned when no source URL was supplied
	ErrMissingURL = errors.New("url parameter is required")

	// ErrMissingOutputDir is returned when a request has no output directory
	ErrMissingOutputDir = errors.New("output directory is required")

	// ErrOutputMissing is returned when extraction reported success but the file is not on disk
	ErrOutputMissing = errors.New("output file was not generated")
)

// Error is a classified error carrying the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError wraps err as a KindValidation error.
func ValidationError(op string, err error) error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

// ExtractionError wraps err as a KindExtraction error.
func ExtractionError(op string, err error) error {
	return &Error{Kind: KindExtraction, Op: op, Err: err}
}

// InternalError wraps err as a KindInternal error.
func InternalError(op string, err error) error {
	return &Error{Kind: KindInternal, Op: op, Err: err}
}

// KindOf returns the kind of the outermost classified error in err's chain.
// Unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Cause returns the innermost message of a classified error, without the
// operation prefixes added on the way up.
func Cause(err error) string {
	var e *Error
	for errors.As(err, &e) {
		err = e.Err
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
