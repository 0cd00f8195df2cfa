// Package decoder implements protocol decoding.
package decoder

import (
	"firestige.xyz/overwatch/internal/core"
)

const (
	ipv4HeaderMinLen = 20
)

// decodeIPv4 decodes the IPv4 header into layer.
// Returns the protocol number and the payload after the header options.
func decodeIPv4(data []byte, layer *core.Layer) (core.IPProto, []byte, error) {
	if err := layer.IPv4.Set(core.IPv4Layout, data); err != nil {
		return 0, nil, err
	}

	// IHL is in 32-bit words
	ihl, _ := layer.IPv4.Uint("ihl")
	headerLen := int(ihl) * 4
	if headerLen < ipv4HeaderMinLen || len(data) < headerLen {
		return 0, nil, core.ErrPacketTooShort
	}

	proto, _ := layer.IPv4.Uint("protocol")
	return core.IPProto(proto), data[headerLen:], nil
}

// decodeIPv6 decodes the fixed IPv6 header into layer.
// Extension headers are not walked; next_hdr selects the upper layer directly.
func decodeIPv6(data []byte, layer *core.Layer) (core.IPProto, []byte, error) {
	if err := layer.IPv6.Set(core.IPv6Layout, data); err != nil {
		return 0, nil, err
	}

	proto, _ := layer.IPv6.Uint("next_hdr")
	return core.IPProto(proto), data[core.IPv6Layout.Size():], nil
}
