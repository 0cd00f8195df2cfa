// Package core defines sentinel errors.
package core

import "errors"

// Sentinel errors shared across the decoder, pipeline, compiler and renderer.
var (
	// Header record errors
	ErrFieldNotFound   = errors.New("overwatch: field not found")
	ErrHeaderTruncated = errors.New("overwatch: header truncated")
	ErrBadAddress      = errors.New("overwatch: bad address length")
	ErrBothIPVersions  = errors.New("overwatch: both ipv4 and ipv6 valid")

	// Packet decoding errors
	ErrPacketTooShort   = errors.New("overwatch: packet too short")
	ErrUnsupportedProto = errors.New("overwatch: unsupported protocol")

	// Match table errors
	ErrUnknownTable  = errors.New("overwatch: unknown table")
	ErrUnknownAction = errors.New("overwatch: unknown action")
	ErrBadKey        = errors.New("overwatch: bad match key")
	ErrBadParams     = errors.New("overwatch: unexpected action parameters")

	// Filter specification errors
	ErrBadFilter = errors.New("overwatch: invalid filter")

	// Frame source errors
	ErrSourceClosed = errors.New("overwatch: frame source closed")
	ErrBadHex       = errors.New("overwatch: invalid hex frame")

	// Configuration errors
	ErrConfigInvalid = errors.New("overwatch: invalid configuration")
)
