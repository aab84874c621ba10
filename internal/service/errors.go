package service

import "errors"

// ErrInvalidInput marks request payloads that fail domain validation. Wrap it
// with the field-level detail so handlers can map it to a 400 while keeping
// the message.
var ErrInvalidInput = errors.New("invalid input")
