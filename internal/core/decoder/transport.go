// Package decoder implements protocol decoding.
package decoder

import (
	"firestige.xyz/overwatch/internal/core"
)

const (
	tcpHeaderMinLen = 20

	// ICMP types that carry an echo header
	icmpEchoReply    = 0
	icmpEcho         = 8
	icmp6EchoRequest = 128
	icmp6EchoReply   = 129

	// Well-known ports
	bgpPort          = 179
	httpPort         = 80
	ddmPort          = 0xdddd
	bfdSingleHopPort = 3784
	bfdMultiHopPort  = 4784
)

// decodeTransport decodes ICMP/ICMPv6 (with echo), TCP or UDP and whatever
// the UDP destination port selects.
func (d *StandardDecoder) decodeTransport(proto core.IPProto, data []byte, chain *core.Chain, layer *core.Layer, outer bool) error {
	v6 := layer.IPv6.Valid

	switch {
	case proto == core.IPProtoICMP && !v6, proto == core.IPProtoICMPv6 && v6:
		return decodeICMP(data, layer, v6)
	case proto == core.IPProtoTCP:
		return decodeTCP(data, layer)
	case proto == core.IPProtoUDP:
		return d.decodeUDP(data, chain, layer, outer)
	}
	return nil
}

// decodeICMP decodes the ICMP header and, for echo request/reply, the echo header.
func decodeICMP(data []byte, layer *core.Layer, v6 bool) error {
	if err := layer.ICMP.Set(core.ICMPLayout, data); err != nil {
		return err
	}

	typ, _ := layer.ICMP.Uint("type")
	echo := typ == icmpEchoReply || typ == icmpEcho
	if v6 {
		echo = typ == icmp6EchoRequest || typ == icmp6EchoReply
	}
	if !echo {
		return nil
	}
	return layer.Echo.Set(core.EchoLayout, data[core.ICMPLayout.Size():])
}

// decodeTCP decodes the TCP header and classifies well-known application ports.
func decodeTCP(data []byte, layer *core.Layer) error {
	if err := layer.TCP.Set(core.TCPLayout, data); err != nil {
		return err
	}

	// Data offset is in 32-bit words
	off, _ := layer.TCP.Uint("data_offset")
	if headerLen := int(off) * 4; headerLen < tcpHeaderMinLen || len(data) < headerLen {
		return core.ErrPacketTooShort
	}

	src := layer.TCP.Uint16("src_port")
	dst := layer.TCP.Uint16("dst_port")
	switch {
	case src == bgpPort || dst == bgpPort:
		layer.App = core.AlpBGP
	case src == httpPort || dst == httpPort:
		layer.App = core.AlpHTTP
	case src == ddmPort || dst == ddmPort:
		layer.App = core.AlpDDMExchange
	}
	return nil
}

// decodeUDP decodes the UDP header. On the outer layer the destination port
// selects geneve, ddm discovery or bfd.
func (d *StandardDecoder) decodeUDP(data []byte, chain *core.Chain, layer *core.Layer, outer bool) error {
	if err := layer.UDP.Set(core.UDPLayout, data); err != nil {
		return err
	}
	payload := data[core.UDPLayout.Size():]

	switch layer.UDP.Uint16("dst_port") {
	case d.genevePort:
		if !d.geneve {
			return nil
		}
		layer.App = core.AlpGeneve
		if outer {
			return d.decodeGeneve(payload, chain)
		}
	case ddmPort:
		layer.App = core.AlpDDMDiscovery
		if outer {
			return chain.DDMDiscovery.Set(core.DDMDiscoveryLayout, payload)
		}
	case bfdSingleHopPort, bfdMultiHopPort:
		layer.App = core.AlpBFD
		if outer {
			return chain.BFD.Set(core.BFDLayout, payload)
		}
	}
	return nil
}
