// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors defines the error handling used by all Warden
// software. Errors carry the operation, the application involved and
// a Kind that classifies the failure; the authorization protocol
// branches on Kind rather than on error strings.
package errors

import (
	"bytes"
	"fmt"
	"runtime"

	"warden.network/log"
	"warden.network/warden"
)

// Error is the type that implements the error interface.
// It contains a number of fields, each of different type.
// An Error value may leave some values unset.
type Error struct {
	// App is the identifier of the application being authorized.
	App warden.AppID
	// Op is the operation being performed, usually the name of the
	// method being invoked (Authenticate, Lookup, Put, etc.).
	Op Op
	// Kind is the class of error, such as a version conflict, or
	// "Other" if its class is unknown or irrelevant.
	Kind Kind
	// The underlying error that triggered this one, if any.
	Err error
}

var (
	_       error = (*Error)(nil)
	zeroErr Error
)

// Separator is the string used to separate nested errors. By
// default, to make errors easier on the eye, nested errors are
// indented on a new line. A server may instead choose to keep each
// error on a single line by modifying the separator string, perhaps
// to ":: ".
var Separator = ":\n\t"

// Op describes an operation, usually as the package and method,
// such as "auth.Authenticate".
type Op string

// Kind defines the kind of error this is, mostly for use by the
// authorization protocol, which must act differently depending on the
// error.
type Kind uint8

// Kinds of errors.
//
// Do not reorder this list or remove items: the values are stable and
// may appear in logs of older runs.
const (
	Other      Kind = iota // Unclassified error. This value is not printed in the error message.
	Invalid                // Invalid operation for this type of item.
	Permission             // Permission denied.
	IO                     // External I/O error such as network failure.
	Exist                  // Item already exists.
	NotExist               // Item does not exist.
	Conflict               // Version conflict on a compare-and-swap write.
	Revoked                // Application is pending revocation.
	Internal               // Internal inconsistency; indicates a bug.
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "other error"
	case Invalid:
		return "invalid operation"
	case Permission:
		return "permission denied"
	case IO:
		return "I/O error"
	case Exist:
		return "item already exists"
	case NotExist:
		return "item does not exist"
	case Conflict:
		return "version conflict"
	case Revoked:
		return "pending revocation"
	case Internal:
		return "internal inconsistency"
	}
	return "unknown error kind"
}

// E builds an error value from its arguments.
// The type of each argument determines its meaning.
// If more than one argument of a given type is presented,
// only the last one is recorded.
//
// The types are:
//	warden.AppID
//		The identifier of the application being authorized.
//	errors.Op
//		The operation being performed, usually the method
//		being invoked (Authenticate, Lookup, Put, etc.).
//	string
//		Treated as an error message and assigned to the
//		Err field after a call to errors.Str.
//	errors.Kind
//		The class of error, such as a version conflict.
//	error
//		The underlying error that triggered this one.
//
// If the error is printed, only those items that have been
// set to non-zero values will appear in the result.
//
// If Kind is not specified or Other, we set it to the Kind of
// the underlying error.
func E(args ...interface{}) error {
	if len(args) == 0 {
		return Str("no error arguments")
	}
	e := &Error{}
	for _, arg := range args {
		switch arg := arg.(type) {
		case warden.AppID:
			e.App = arg
		case Op:
			e.Op = arg
		case string:
			e.Err = Str(arg)
		case Kind:
			e.Kind = arg
		case *Error:
			// Make a copy
			errCopy := *arg
			e.Err = &errCopy
		case error:
			e.Err = arg
		default:
			_, file, line, _ := runtime.Caller(1)
			log.Printf("errors.E: bad call from %s:%d: %v", file, line, args)
			return Errorf("unknown type %T, value %v in error call", arg, arg)
		}
	}

	prev, ok := e.Err.(*Error)
	if !ok {
		return e
	}

	// The previous error was also one of ours. Suppress duplications
	// so the message won't contain the same kind or app id twice.
	if prev.App == e.App {
		prev.App = ""
	}
	if prev.Kind == e.Kind {
		prev.Kind = Other
	}
	// If this error has Kind unset or Other, pull up the inner one.
	if e.Kind == Other {
		e.Kind = prev.Kind
		prev.Kind = Other
	}
	return e
}

// pad appends str to the buffer if the buffer already has some data.
func pad(b *bytes.Buffer, str string) {
	if b.Len() == 0 {
		return
	}
	b.WriteString(str)
}

func (e *Error) Error() string {
	b := new(bytes.Buffer)
	if e.Op != "" {
		pad(b, ": ")
		b.WriteString(string(e.Op))
	}
	if e.App != "" {
		pad(b, ": ")
		b.WriteString("app ")
		b.WriteString(string(e.App))
	}
	if e.Kind != 0 {
		pad(b, ": ")
		b.WriteString(e.Kind.String())
	}
	if e.Err != nil {
		// Indent on new line if we are cascading non-empty Warden errors.
		if prevErr, ok := e.Err.(*Error); ok {
			if !prevErr.isZero() {
				pad(b, Separator)
				b.WriteString(e.Err.Error())
			}
		} else {
			pad(b, ": ")
			b.WriteString(e.Err.Error())
		}
	}
	if b.Len() == 0 {
		return "no error"
	}
	return b.String()
}

func (e *Error) isZero() bool {
	return *e == zeroErr
}

// Unwrap returns the underlying error, if any, so the standard
// library's errors.Is and errors.As can walk the chain.
func (e *Error) Unwrap() error {
	return e.Err
}

// Recreate the errors.New functionality of the standard Go errors package
// so we can create simple text errors when needed.

// Str returns an error that formats as the given text. It is intended
// to be used as the error-typed argument to the E function.
func Str(text string) error {
	return &errorString{text}
}

// errorString is a trivial implementation of error.
type errorString struct {
	s string
}

func (e *errorString) Error() string {
	return e.s
}

// Errorf is equivalent to fmt.Errorf, but allows clients to import only
// this package for all error handling.
func Errorf(format string, args ...interface{}) error {
	return &errorString{fmt.Sprintf(format, args...)}
}

// Match compares its two error arguments. It can be used to check for
// expected errors in tests. Both arguments must have underlying type
// *Error or Match will return false. Otherwise it returns true iff
// every non-zero element of the first error is equal to the
// corresponding element of the second. If the Err field is a *Error,
// Match recurs on both fields; otherwise it compares the strings
// returned by the Error methods. Elements that are in the second
// argument but not present in the first are ignored.
//
// For example,
//	Match(errors.E(warden.AppID("app.demo"), errors.Conflict), err)
// tests whether err is an Error with App="app.demo" and
// Kind=Conflict.
func Match(err1, err2 error) bool {
	e1, ok := err1.(*Error)
	if !ok {
		return false
	}
	e2, ok := err2.(*Error)
	if !ok {
		return false
	}
	if e1.App != "" && e2.App != e1.App {
		return false
	}
	if e1.Op != "" && e2.Op != e1.Op {
		return false
	}
	if e1.Kind != Other && e2.Kind != e1.Kind {
		return false
	}
	if e1.Err != nil {
		if _, ok := e1.Err.(*Error); ok {
			return Match(e1.Err, e2.Err)
		}
		if e2.Err == nil || e2.Err.Error() != e1.Err.Error() {
			return false
		}
	}
	return true
}

// Is reports whether err is an *Error of the given Kind.
// If err is nil then Is returns false.
func Is(kind Kind, err error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	if e.Kind != Other {
		return e.Kind == kind
	}
	if e.Err != nil {
		return Is(kind, e.Err)
	}
	return false
}
