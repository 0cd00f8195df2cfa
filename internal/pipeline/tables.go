package pipeline

import (
	"firestige.xyz/overwatch/internal/core"
)

// Base table names. Outer tables are prefixed "ingress_", inner tables
// "ingress_inner_".
const (
	EthEthertype = "eth_ethertype"
	VLANVid      = "vlan_vid"
	IPv4Src      = "ipv4_src"
	IPv4Dst      = "ipv4_dst"
	IPv4Host     = "ipv4_host"
	IPv6Src      = "ipv6_src"
	IPv6Dst      = "ipv6_dst"
	IPv6Host     = "ipv6_host"
	IPv4Proto    = "ipv4_proto"
	IPv6Proto    = "ipv6_proto"
	PortsSrc     = "ports_src"
	PortsDst     = "ports_dst"
	PortsPort    = "ports_port"
	AppProto     = "app_proto"

	outerPrefix = "ingress_"
	innerPrefix = "ingress_inner_"
)

// TableName returns the full name of a table for the outer or inner layer.
func TableName(base string, inner bool) string {
	if inner {
		return innerPrefix + base
	}
	return outerPrefix + base
}

// keyFunc extracts the sub-field values a table matches on. ok is false when
// the headers the key reads are not valid, in which case the table is skipped.
type keyFunc func(c *core.Chain) (fields [][]byte, ok bool)

// Schema describes one match table: its name and the byte width of each
// sub-field of its key.
type Schema struct {
	Name   string
	Widths []int

	key keyFunc
}

// KeyLen returns the length of a key for this table, tags included.
func (s *Schema) KeyLen() int {
	n := 0
	for _, w := range s.Widths {
		n += w + 1
	}
	return n
}

// Schemas returns the schemas of every table in lookup order.
func Schemas() []*Schema {
	schemas := layerSchemas(false)
	schemas = append(schemas, &Schema{
		Name:   TableName(VLANVid, false),
		Widths: []int{2},
		key: func(c *core.Chain) ([][]byte, bool) {
			if !c.VLAN.Valid {
				return nil, false
			}
			return [][]byte{EncodeUint16(c.VLAN.Uint16("vid"))}, true
		},
	})
	return append(schemas, layerSchemas(true)...)
}

func layerSchemas(inner bool) []*Schema {
	layer := func(c *core.Chain) *core.Layer {
		if inner {
			return &c.Inner
		}
		return &c.Outer
	}

	addr := func(h *core.Header, name string) []byte {
		b, _ := h.Bytes(name)
		return reversed(b)
	}

	ip := func(base string, width int, pick func(l *core.Layer) *core.Header, fields ...string) *Schema {
		widths := make([]int, len(fields))
		for i := range widths {
			widths[i] = width
		}
		return &Schema{
			Name:   TableName(base, inner),
			Widths: widths,
			key: func(c *core.Chain) ([][]byte, bool) {
				h := pick(layer(c))
				if !h.Valid {
					return nil, false
				}
				out := make([][]byte, len(fields))
				for i, f := range fields {
					out[i] = addr(h, f)
				}
				return out, true
			},
		}
	}
	v4 := func(l *core.Layer) *core.Header { return &l.IPv4 }
	v6 := func(l *core.Layer) *core.Header { return &l.IPv6 }

	proto := func(base string, pick func(l *core.Layer) *core.Header, field string) *Schema {
		return &Schema{
			Name:   TableName(base, inner),
			Widths: []int{1},
			key: func(c *core.Chain) ([][]byte, bool) {
				h := pick(layer(c))
				if !h.Valid {
					return nil, false
				}
				v, _ := h.Uint(field)
				return [][]byte{EncodeUint8(uint8(v))}, true
			},
		}
	}

	ports := func(base string, fields ...string) *Schema {
		widths := make([]int, len(fields))
		for i := range widths {
			widths[i] = 2
		}
		return &Schema{
			Name:   TableName(base, inner),
			Widths: widths,
			key: func(c *core.Chain) ([][]byte, bool) {
				h, ok := layer(c).Transport()
				if !ok {
					return nil, false
				}
				out := make([][]byte, len(fields))
				for i, f := range fields {
					out[i] = EncodeUint16(h.Uint16(f))
				}
				return out, true
			},
		}
	}

	return []*Schema{
		{
			Name:   TableName(EthEthertype, inner),
			Widths: []int{2},
			key: func(c *core.Chain) ([][]byte, bool) {
				l := layer(c)
				if !l.Ethernet.Valid {
					return nil, false
				}
				return [][]byte{EncodeUint16(l.Ethernet.Uint16("ether_type"))}, true
			},
		},
		ip(IPv4Src, 4, v4, "src"),
		ip(IPv4Dst, 4, v4, "dst"),
		ip(IPv4Host, 4, v4, "src", "dst"),
		ip(IPv6Src, 16, v6, "src"),
		ip(IPv6Dst, 16, v6, "dst"),
		ip(IPv6Host, 16, v6, "src", "dst"),
		proto(IPv4Proto, v4, "protocol"),
		proto(IPv6Proto, v6, "next_hdr"),
		ports(PortsSrc, "src_port"),
		ports(PortsDst, "dst_port"),
		ports(PortsPort, "src_port", "dst_port"),
		{
			Name:   TableName(AppProto, inner),
			Widths: []int{1},
			key: func(c *core.Chain) ([][]byte, bool) {
				l := layer(c)
				if _, ok := l.Transport(); !ok {
					return nil, false
				}
				return [][]byte{EncodeUint8(uint8(l.App))}, true
			},
		},
	}
}
