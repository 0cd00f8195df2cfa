// Package core defines the decoded header chain with zero external dependencies.
package core

import (
	"fmt"
	"net/netip"
)

// ByteOrder is the significance order of a multi-byte field.
type ByteOrder uint8

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

// FieldDesc describes one named field of a header layout.
type FieldDesc struct {
	Name  string
	Bits  int
	Order ByteOrder
}

// Layout is the ordered field list of one header kind. The total width is a
// whole number of bytes.
type Layout struct {
	Name   string
	Fields []FieldDesc

	offsets map[string]int
	size    int
}

// NewLayout builds a layout and indexes its field bit offsets.
func NewLayout(name string, fields ...FieldDesc) *Layout {
	l := &Layout{Name: name, Fields: fields, offsets: make(map[string]int, len(fields))}
	bits := 0
	for _, f := range fields {
		l.offsets[f.Name] = bits
		bits += f.Bits
	}
	if bits%8 != 0 {
		panic(fmt.Sprintf("layout %s: %d bits is not a whole number of bytes", name, bits))
	}
	l.size = bits / 8
	return l
}

// Size returns the fixed header length in bytes.
func (l *Layout) Size() int { return l.size }

// Field returns the descriptor and bit offset for name.
func (l *Layout) Field(name string) (FieldDesc, int, bool) {
	off, ok := l.offsets[name]
	if !ok {
		return FieldDesc{}, 0, false
	}
	for _, f := range l.Fields {
		if f.Name == name {
			return f, off, true
		}
	}
	return FieldDesc{}, 0, false
}

// Header is one header record: a layout, a validity flag and the fixed-size
// header bytes as they appeared on the wire.
type Header struct {
	Layout *Layout
	Valid  bool
	Data   []byte
}

// Set marks the header valid and copies the fixed portion out of data.
func (h *Header) Set(l *Layout, data []byte) error {
	if len(data) < l.Size() {
		return ErrPacketTooShort
	}
	h.Layout = l
	h.Valid = true
	h.Data = append(h.Data[:0], data[:l.Size()]...)
	return nil
}

// Reset clears the header, keeping its buffer.
func (h *Header) Reset() {
	h.Valid = false
	h.Data = h.Data[:0]
}

// Uint loads a field of up to 64 bits.
func (h Header) Uint(name string) (uint64, error) {
	f, off, err := h.lookup(name)
	if err != nil {
		return 0, err
	}
	if f.Bits > 64 {
		return 0, fmt.Errorf("%s.%s is %d bits: %w", h.Layout.Name, name, f.Bits, ErrFieldNotFound)
	}
	if off%8 == 0 && f.Bits%8 == 0 {
		b := h.Data[off/8 : off/8+f.Bits/8]
		var v uint64
		if f.Order == LittleEndian {
			for i := len(b) - 1; i >= 0; i-- {
				v = v<<8 | uint64(b[i])
			}
			return v, nil
		}
		for _, c := range b {
			v = v<<8 | uint64(c)
		}
		return v, nil
	}
	var v uint64
	for i := 0; i < f.Bits; i++ {
		bit := off + i
		v = v<<1 | uint64(h.Data[bit/8]>>(7-bit%8)&1)
	}
	return v, nil
}

// Bool loads a single-bit field.
func (h Header) Bool(name string) (bool, error) {
	v, err := h.Uint(name)
	return v != 0, err
}

// Bytes returns the raw bytes of a byte-aligned field.
func (h Header) Bytes(name string) ([]byte, error) {
	f, off, err := h.lookup(name)
	if err != nil {
		return nil, err
	}
	if off%8 != 0 || f.Bits%8 != 0 {
		return nil, fmt.Errorf("%s.%s is not byte aligned: %w", h.Layout.Name, name, ErrFieldNotFound)
	}
	return h.Data[off/8 : off/8+f.Bits/8], nil
}

// MAC returns a 48-bit link address field.
func (h Header) MAC(name string) ([6]byte, error) {
	var mac [6]byte
	b, err := h.Bytes(name)
	if err != nil {
		return mac, err
	}
	if len(b) != len(mac) {
		return mac, fmt.Errorf("%s.%s: %w", h.Layout.Name, name, ErrBadAddress)
	}
	copy(mac[:], b)
	return mac, nil
}

// Addr returns a 32 or 128 bit IP address field.
func (h Header) Addr(name string) (netip.Addr, error) {
	b, err := h.Bytes(name)
	if err != nil {
		return netip.Addr{}, err
	}
	addr, ok := netip.AddrFromSlice(b)
	if !ok {
		return netip.Addr{}, fmt.Errorf("%s.%s: %w", h.Layout.Name, name, ErrBadAddress)
	}
	return addr, nil
}

// Uint16 is a convenience for fields known to fit in 16 bits. Errors load as zero.
func (h Header) Uint16(name string) uint16 {
	v, _ := h.Uint(name)
	return uint16(v)
}

func (h Header) lookup(name string) (FieldDesc, int, error) {
	if h.Layout == nil {
		return FieldDesc{}, 0, ErrFieldNotFound
	}
	f, off, ok := h.Layout.Field(name)
	if !ok {
		return FieldDesc{}, 0, fmt.Errorf("%s.%s: %w", h.Layout.Name, name, ErrFieldNotFound)
	}
	if (off+f.Bits+7)/8 > len(h.Data) {
		return FieldDesc{}, 0, fmt.Errorf("%s.%s: %w", h.Layout.Name, name, ErrHeaderTruncated)
	}
	return f, off, nil
}
