package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Ethertype is a link-layer payload type.
type Ethertype uint16

const (
	EthertypeIPv4     Ethertype = 0x0800
	EthertypeIPv6     Ethertype = 0x86dd
	EthertypeARP      Ethertype = 0x0806
	EthertypeWol      Ethertype = 0x0842
	EthertypeVLAN     Ethertype = 0x8100
	EthertypePbr      Ethertype = 0x88a8
	EthertypeLLDP     Ethertype = 0x88cc
	EthertypeQnQ      Ethertype = 0x9100
	EthertypeSidecar  Ethertype = 0x0901
	EthertypeEthernet Ethertype = 0x6558
)

var ethertypeNames = map[Ethertype]string{
	EthertypeIPv4:     "IPv4",
	EthertypeIPv6:     "IPv6",
	EthertypeARP:      "Arp",
	EthertypeWol:      "Wol",
	EthertypeVLAN:     "Vlan",
	EthertypePbr:      "Pbr",
	EthertypeLLDP:     "Lldp",
	EthertypeQnQ:      "QnQ",
	EthertypeSidecar:  "Sidecar",
	EthertypeEthernet: "Ethernet",
}

// Lookup returns the ethertype name if it is known.
func (e Ethertype) Lookup() (string, bool) {
	s, ok := ethertypeNames[e]
	return s, ok
}

func (e Ethertype) String() string {
	if s, ok := e.Lookup(); ok {
		return s
	}
	return fmt.Sprintf("0x%04x", uint16(e))
}

// ParseEthertype accepts a known name (case-insensitive) or a decimal/0x number.
func ParseEthertype(s string) (Ethertype, error) {
	for k, v := range ethertypeNames {
		if strings.EqualFold(v, s) {
			return k, nil
		}
	}
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("ethertype %q: %w", s, ErrBadFilter)
	}
	return Ethertype(n), nil
}

// IPProto is an IP protocol / IPv6 next-header number.
type IPProto uint8

const (
	IPProtoIPv6Hbh    IPProto = 0
	IPProtoICMP       IPProto = 1
	IPProtoIGMP       IPProto = 2
	IPProtoIPv4       IPProto = 4
	IPProtoTCP        IPProto = 6
	IPProtoEGP        IPProto = 8
	IPProtoIGP        IPProto = 9
	IPProtoUDP        IPProto = 17
	IPProtoIPv6       IPProto = 41
	IPProtoIPv6Rth    IPProto = 43
	IPProtoIPv6Frag   IPProto = 44
	IPProtoGRE        IPProto = 47
	IPProtoICMPv6     IPProto = 58
	IPProtoIPv6NoNext IPProto = 59
	IPProtoIPv6DstOpt IPProto = 60
	IPProtoEIGRP      IPProto = 88
	IPProtoVRRP       IPProto = 112
	IPProtoSTP        IPProto = 118
	IPProtoPTP        IPProto = 123
	IPProtoSCTP       IPProto = 132
)

var ipProtoNames = map[IPProto]string{
	IPProtoIPv6Hbh:    "Ipv6Hbh",
	IPProtoICMP:       "Icmp",
	IPProtoIGMP:       "Igmp",
	IPProtoIPv4:       "Ipv4",
	IPProtoTCP:        "Tcp",
	IPProtoEGP:        "Egp",
	IPProtoIGP:        "Igp",
	IPProtoUDP:        "Udp",
	IPProtoIPv6:       "Ipv6",
	IPProtoIPv6Rth:    "Ipv6Rth",
	IPProtoIPv6Frag:   "Ipv6Frag",
	IPProtoGRE:        "Gre",
	IPProtoICMPv6:     "Icmp6",
	IPProtoIPv6NoNext: "Ipv6NoNext",
	IPProtoIPv6DstOpt: "Ipv6DstOpt",
	IPProtoEIGRP:      "Eigrp",
	IPProtoVRRP:       "Vrrp",
	IPProtoSTP:        "Stp",
	IPProtoPTP:        "Ptp",
	IPProtoSCTP:       "Sctp",
}

// Lookup returns the protocol name if it is known.
func (p IPProto) Lookup() (string, bool) {
	s, ok := ipProtoNames[p]
	return s, ok
}

func (p IPProto) String() string {
	if s, ok := p.Lookup(); ok {
		return s
	}
	return strconv.Itoa(int(p))
}

// ParseIPProto accepts a known name (case-insensitive) or a number.
func ParseIPProto(s string) (IPProto, error) {
	for k, v := range ipProtoNames {
		if strings.EqualFold(v, s) {
			return k, nil
		}
	}
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("ip protocol %q: %w", s, ErrBadFilter)
	}
	return IPProto(n), nil
}

// Alp is the application-layer protocol tag the parser assigns to a layer.
type Alp uint8

const (
	AlpNone         Alp = 0
	AlpGeneve       Alp = 1
	AlpBGP          Alp = 2
	AlpHTTP         Alp = 3
	AlpDDMDiscovery Alp = 4
	AlpDDMExchange  Alp = 5
	AlpBFD          Alp = 6
)

var alpNames = map[Alp]string{
	AlpGeneve:       "Geneve",
	AlpBGP:          "Bgp",
	AlpHTTP:         "Http",
	AlpDDMDiscovery: "DdmDiscovery",
	AlpDDMExchange:  "DdmExchange",
	AlpBFD:          "Bfd",
}

func (a Alp) String() string {
	if s, ok := alpNames[a]; ok {
		return s
	}
	return strconv.Itoa(int(a))
}

// ParseAlp accepts a known name, its kebab-case form (ddm-discovery) or a number.
func ParseAlp(s string) (Alp, error) {
	flat := strings.ReplaceAll(s, "-", "")
	for k, v := range alpNames {
		if strings.EqualFold(v, flat) {
			return k, nil
		}
	}
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("application protocol %q: %w", s, ErrBadFilter)
	}
	return Alp(n), nil
}
