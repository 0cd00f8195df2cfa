// Package filter compiles filter specifications into ternary match entries.
package filter

import (
	"net/netip"

	"firestige.xyz/overwatch/internal/core"
)

// LayerSpec holds the filter dimensions that apply to one layer of a frame.
// Each populated dimension constrains its field independently; an empty
// dimension installs nothing.
type LayerSpec struct {
	EthTypes []core.Ethertype `mapstructure:"eth_type" yaml:"eth_type"`
	IPSrc    []netip.Addr     `mapstructure:"ip_src" yaml:"ip_src"`
	IPDst    []netip.Addr     `mapstructure:"ip_dst" yaml:"ip_dst"`
	IPHost   []netip.Addr     `mapstructure:"ip_host" yaml:"ip_host"`
	IPProto  []core.IPProto   `mapstructure:"ip_proto" yaml:"ip_proto"`
	SrcPort  []uint16         `mapstructure:"src_port" yaml:"src_port"`
	DstPort  []uint16         `mapstructure:"dst_port" yaml:"dst_port"`
	Port     []uint16         `mapstructure:"port" yaml:"port"`
	ALP      []core.Alp       `mapstructure:"alp" yaml:"alp"`

	// Ethertype shorthands
	IPv4Only bool `mapstructure:"v4" yaml:"v4"`
	IPv6Only bool `mapstructure:"v6" yaml:"v6"`
	ARPOnly  bool `mapstructure:"arp" yaml:"arp"`
}

// Spec is a complete filter specification.
type Spec struct {
	Outer LayerSpec `mapstructure:"outer" yaml:"outer"`
	Inner LayerSpec `mapstructure:"inner" yaml:"inner"`

	// Outer-only VLAN selectors. VLAN is shorthand for ethertype 0x8100.
	VLAN bool     `mapstructure:"vlan" yaml:"vlan"`
	VIDs []uint16 `mapstructure:"vid" yaml:"vid"`
}

// Empty reports whether the specification installs no entries.
func (s Spec) Empty() bool {
	return !s.VLAN && len(s.VIDs) == 0 && s.Outer.empty() && s.Inner.empty()
}

func (l LayerSpec) empty() bool {
	return len(l.EthTypes) == 0 && len(l.IPSrc) == 0 && len(l.IPDst) == 0 &&
		len(l.IPHost) == 0 && len(l.IPProto) == 0 && len(l.SrcPort) == 0 &&
		len(l.DstPort) == 0 && len(l.Port) == 0 && len(l.ALP) == 0 &&
		!l.IPv4Only && !l.IPv6Only && !l.ARPOnly
}

// ethertypes returns the ethertype values of the layer with shorthands applied.
func (l LayerSpec) ethertypes(vlan bool) []core.Ethertype {
	out := append([]core.Ethertype(nil), l.EthTypes...)
	if vlan {
		out = append(out, core.EthertypeVLAN)
	}
	if l.IPv4Only {
		out = append(out, core.EthertypeIPv4)
	}
	if l.IPv6Only {
		out = append(out, core.EthertypeIPv6)
	}
	if l.ARPOnly {
		out = append(out, core.EthertypeARP)
	}
	return out
}

// Merge returns s with the dimensions of other appended. Boolean selectors
// are or-ed.
func (s Spec) Merge(other Spec) Spec {
	return Spec{
		Outer: s.Outer.merge(other.Outer),
		Inner: s.Inner.merge(other.Inner),
		VLAN:  s.VLAN || other.VLAN,
		VIDs:  append(append([]uint16(nil), s.VIDs...), other.VIDs...),
	}
}

func (l LayerSpec) merge(o LayerSpec) LayerSpec {
	return LayerSpec{
		EthTypes: append(append([]core.Ethertype(nil), l.EthTypes...), o.EthTypes...),
		IPSrc:    append(append([]netip.Addr(nil), l.IPSrc...), o.IPSrc...),
		IPDst:    append(append([]netip.Addr(nil), l.IPDst...), o.IPDst...),
		IPHost:   append(append([]netip.Addr(nil), l.IPHost...), o.IPHost...),
		IPProto:  append(append([]core.IPProto(nil), l.IPProto...), o.IPProto...),
		SrcPort:  append(append([]uint16(nil), l.SrcPort...), o.SrcPort...),
		DstPort:  append(append([]uint16(nil), l.DstPort...), o.DstPort...),
		Port:     append(append([]uint16(nil), l.Port...), o.Port...),
		ALP:      append(append([]core.Alp(nil), l.ALP...), o.ALP...),
		IPv4Only: l.IPv4Only || o.IPv4Only,
		IPv6Only: l.IPv6Only || o.IPv6Only,
		ARPOnly:  l.ARPOnly || o.ARPOnly,
	}
}
