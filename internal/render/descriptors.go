package render

import "firestige.xyz/overwatch/internal/core"

var (
	vlanDesc = descriptor{"Vlan", []item{
		bare("vid"),
		num("pcp", "pcp"),
		boolean("dei", "dei"),
		code("et", "ether_type", ethertype, true),
	}}

	sidecarDesc = descriptor{"Sc", []item{
		code("", "sc_code", table(sidecarCodes, "0x%02x"), false),
		num("ingress", "sc_ingress"),
		num("egress", "sc_egress"),
		code("et", "sc_ether_type", ethertype, true),
	}}

	arpDesc = descriptor{"Arp", []item{
		resolve,
		code("op", "opcode", table(arpOpcodes, "0x%04x"), false),
		code("ht", "hw_type", table(arpHwTypes, "0x%04x"), false),
		code("pt", "proto_type", ethertype, true),
		num("hlen", "hw_addr_len"),
		num("plen", "proto_addr_len"),
	}}

	ipv4Desc = descriptor{"Ip4", []item{
		addrPair("src", "dst"),
		num("ihl", "ihl"),
		num("ds", "diffserv"),
		num("len", "total_len"),
		num("id", "identification"),
		ipv4Flags,
		num("fo", "frag_offset"),
		num("ttl", "ttl"),
		num("chk", "hdr_checksum"),
		code("proto", "protocol", ipProto, true),
	}}

	ipv6Desc = descriptor{"Ip6", []item{
		addrPair("src", "dst"),
		num("tc", "traffic_class"),
		num("fl", "flow_label"),
		num("len", "payload_len"),
		num("ttl", "hop_limit"),
		code("proto", "next_hdr", ipProto, true),
	}}

	icmpDesc = descriptor{"ICMP", []item{
		icmpTypeCode(icmpTypes, icmpCodes),
		num("chk", "hdr_checksum"),
	}}

	icmp6Desc = descriptor{"ICMP6", []item{
		icmpTypeCode(icmp6Types, icmp6Codes),
		num("chk", "hdr_checksum"),
	}}

	echoDesc = descriptor{"Echo", []item{
		num("id", "id"),
		num("seq", "seq"),
	}}

	tcpDesc = descriptor{"TCP", []item{
		portPair("src_port", "dst_port"),
		num("seq", "seq_no"),
		num("ack", "ack_no"),
		num("off", "data_offset"),
		num("res", "res"),
		flags("flags", []flagBit{
			{"CWR", "flags", 0x80},
			{"ECE", "flags", 0x40},
			{"URG", "flags", 0x20},
			{"PSH", "flags", 0x08},
			{"RST", "flags", 0x04},
			{"SYN", "flags", 0x02},
			{"ACK", "flags", 0x10},
			{"FIN", "flags", 0x01},
		}, false),
		num("win", "window"),
		num("chk", "checksum"),
		num("urg", "urgent_ptr"),
	}}

	bfdDesc = descriptor{"Bfd", []item{
		num("ver", "version"),
		bfdStatus,
		bfdDiag,
		flags("flags", []flagBit{
			{name: "poll", field: "poll"},
			{name: "final", field: "final"},
			{name: "cpi", field: "control_plane_independent"},
			{name: "auth", field: "authentication_present"},
			{name: "demand", field: "demand"},
			{name: "mp", field: "multipoint"},
		}, true),
		num("dm", "detect_mult"),
		num("len", "len"),
		num("m", "my_discriminator"),
		num("y", "your_discriminator"),
		num("dtx", "desired_min_tx_interval"),
		num("rtx", "required_min_tx_interval"),
		num("rex", "required_min_echo_rx_interval"),
	}}

	geneveDesc = descriptor{"Gnv", []item{
		bare("vni"),
		num("ver", "version"),
		num("olen", "opt_len"),
		boolean("ctrl", "ctrl"),
		boolean("crit", "crit"),
		code("proto", "protocol", ethertype, true),
	}}
)

// ethernetDesc renders the ethernet header; the outer header also carries
// the frame length.
func ethernetDesc(frameLen int, outer bool) descriptor {
	items := []item{
		macPair("src", "dst"),
		code("et", "ether_type", ethertype, true),
	}
	if outer {
		items = append(items, func(st Style, _ core.Header) (string, bool) {
			return field(st, "len", itoa(frameLen)), true
		})
	}
	return descriptor{"Eth", items}
}

// udpDesc renders the UDP header, flagging the checksum when an expected
// value is known and differs.
func udpDesc(expected uint16, haveExpected bool) descriptor {
	chk := func(st Style, h core.Header) (string, bool) {
		v, err := h.Uint("checksum")
		if err != nil {
			return "", false
		}
		if haveExpected && uint16(v) != expected {
			return badField(st, "chk", itoa(int(v)), itoa(int(expected))), true
		}
		return field(st, "chk", itoa(int(v))), true
	}
	return descriptor{"UDP", []item{
		portPair("src_port", "dst_port"),
		num("len", "len"),
		chk,
	}}
}

// ddmDesc renders a discovery header followed by the hostname it carries
// in rest, the bytes from the start of the header to the end of the frame.
func ddmDesc(rest []byte) descriptor {
	host := func(st Style, h core.Header) (string, bool) {
		n, err := h.Uint("hostname_len")
		if err != nil {
			return "", false
		}
		return field(st, "host", hostname(rest, int(n))), true
	}
	return descriptor{"DDMd", []item{
		num("version", "version"),
		flags("flags", []flagBit{
			{"Solicit", "flags", 0x01},
			{"Advertise", "flags", 0x02},
		}, false),
		code("kind", "router_kind", table(ddmRouterKinds, "%d"), false),
		num("len", "hostname_len"),
		host,
	}}
}
