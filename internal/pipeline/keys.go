package pipeline

import (
	"encoding/binary"
	"net/netip"
)

// Match keys are a sequence of sub-fields, each a one byte tag followed by
// the field value. Tag 1 means the value must match exactly, tag 0 means
// the sub-field is ignored.
const (
	TagIgnore byte = 0
	TagExact  byte = 1
)

// Values are laid out the way the tables store them: addresses with their
// octets reversed, 16-bit fields in little-endian order.

// EncodeAddr returns the table representation of an IPv4 or IPv6 address.
func EncodeAddr(addr netip.Addr) []byte {
	return reversed(addr.AsSlice())
}

// EncodeUint16 returns the table representation of a port, ethertype or VLAN id.
func EncodeUint16(v uint16) []byte {
	return binary.LittleEndian.AppendUint16(nil, v)
}

// EncodeUint8 returns the table representation of a protocol number or
// application protocol tag.
func EncodeUint8(v uint8) []byte {
	return []byte{v}
}

// Exact returns a key with one exact sub-field.
func Exact(value []byte) []byte {
	return append([]byte{TagExact}, value...)
}

// Wildcard returns a key with one ignored sub-field of value's width.
func Wildcard(value []byte) []byte {
	return append([]byte{TagIgnore}, value...)
}

// Either returns the two keys of a two sub-field table that match value in
// the first or in the second position.
func Either(value []byte) (first, second []byte) {
	first = append(Exact(value), Wildcard(value)...)
	second = append(Wildcard(value), Exact(value)...)
	return first, second
}

// EitherWildcard returns the two sub-field key that ignores both positions.
func EitherWildcard(value []byte) []byte {
	return append(Wildcard(value), Wildcard(value)...)
}

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}
