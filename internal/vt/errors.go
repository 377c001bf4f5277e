package vt

import "errors"

// ErrClosed is returned by a Writer or Parser after Close.
var ErrClosed = errors.New("vt: writer closed")
