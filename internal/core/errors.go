package core

import (
	"bytes"
	"errors"
)

// Kind classifies an identification failure.
type Kind int

const (
	// KindOther is an unclassified error.
	KindOther Kind = iota
	// KindInvalidInput means the request itself was malformed.
	KindInvalidInput
	// KindUnsupported means the URL does not belong to a supported platform.
	KindUnsupported
	// KindMetadata means the platform lookup failed.
	KindMetadata
	// KindNotRecognized means the fingerprinting service found no match.
	KindNotRecognized
	// KindConfiguration means a required credential or endpoint is missing.
	KindConfiguration
	// KindTransport means an upstream service could not be reached.
	KindTransport
	// KindInternal is an unexpected server side failure.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindUnsupported:
		return "unsupported link"
	case KindMetadata:
		return "metadata lookup failed"
	case KindNotRecognized:
		return "song not recognized"
	case KindConfiguration:
		return "service misconfigured"
	case KindTransport:
		return "upstream unreachable"
	case KindInternal:
		return "internal error"
	default:
		return "other error"
	}
}

// Op names the operation that failed.
type Op string

// Error is a kind tagged identification error.
type Error struct {
	Kind Kind
	Op   Op
	Err  error
}

// E builds an *Error from its arguments. Arguments of type Kind, Op, string
// and error are recognized; a string becomes the wrapped error message.
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("call to core.E with no arguments")
	}

	e := &Error{}
	for _, arg := range args {
		switch arg := arg.(type) {
		case Kind:
			e.Kind = arg
		case Op:
			e.Op = arg
		case string:
			e.Err = errors.New(arg)
		case *Error:
			copied := *arg
			e.Err = &copied
		case error:
			e.Err = arg
		}
	}

	prev, ok := e.Err.(*Error)
	if !ok {
		return e
	}

	// the wrapped error is a copy, so the kind can be moved up without
	// repeating it in the message
	if prev.Kind == e.Kind {
		prev.Kind = KindOther
	}
	if e.Kind == KindOther {
		e.Kind = prev.Kind
		prev.Kind = KindOther
	}

	return e
}

func (e *Error) Error() string {
	b := new(bytes.Buffer)
	if e.Op != "" {
		b.WriteString(string(e.Op))
	}
	if e.Kind != KindOther {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(e.Kind.String())
	}
	if e.Err != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the first Kind other than KindOther found in err's chain.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind != KindOther {
			return e.Kind
		}
		err = errors.Unwrap(err)
	}
	return KindOther
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
