// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "github.com/cpmech/gosl/io"

// ErrKind tags the class of a simulation error
type ErrKind int

const (
	ErrConfig    ErrKind = iota // invalid configuration or input data
	ErrNumerical                // numerical breakdown: non-finite or negative quantities
	ErrSolver                   // linear solver did not converge
	ErrIO                       // input/output failure
)

// Err is a tagged simulation error
type Err struct {
	Kind ErrKind // class of error
	Msg  string  // diagnostic message
}

// Error returns the message
func (o *Err) Error() string {
	switch o.Kind {
	case ErrConfig:
		return "configuration error: " + o.Msg
	case ErrNumerical:
		return "numerical breakdown: " + o.Msg
	case ErrSolver:
		return "linear solver error: " + o.Msg
	}
	return "io error: " + o.Msg
}

// NewErr creates a tagged error with a formatted message
func NewErr(kind ErrKind, msg string, prm ...interface{}) *Err {
	return &Err{Kind: kind, Msg: io.Sf(msg, prm...)}
}

// WrapErr tags an existing error, keeping its message
func WrapErr(kind ErrKind, err error) *Err {
	if err == nil {
		return nil
	}
	return &Err{Kind: kind, Msg: err.Error()}
}

// IsKind reports whether err is a tagged error of the given kind
func IsKind(err error, kind ErrKind) bool {
	e, ok := err.(*Err)
	return ok && e.Kind == kind
}
