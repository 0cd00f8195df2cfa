package core

func be(name string, bits int) FieldDesc { return FieldDesc{Name: name, Bits: bits} }

// Header layouts, fields in wire order.
var (
	EthernetLayout = NewLayout("ethernet",
		be("dst", 48),
		be("src", 48),
		be("ether_type", 16),
	)

	VLANLayout = NewLayout("vlan",
		be("pcp", 3),
		be("dei", 1),
		be("vid", 12),
		be("ether_type", 16),
	)

	// SidecarLayout is the switch-to-host sidecar header carried behind
	// ethertype 0x0901.
	SidecarLayout = NewLayout("sidecar",
		be("sc_code", 8),
		be("sc_pad", 8),
		be("sc_ingress", 16),
		be("sc_egress", 16),
		be("sc_ether_type", 16),
		be("sc_payload", 128),
	)

	ARPLayout = NewLayout("arp",
		be("hw_type", 16),
		be("proto_type", 16),
		be("hw_addr_len", 8),
		be("proto_addr_len", 8),
		be("opcode", 16),
		be("sender_mac", 48),
		be("sender_ip", 32),
		be("target_mac", 48),
		be("target_ip", 32),
	)

	IPv4Layout = NewLayout("ipv4",
		be("version", 4),
		be("ihl", 4),
		be("diffserv", 8),
		be("total_len", 16),
		be("identification", 16),
		be("flags", 3),
		be("frag_offset", 13),
		be("ttl", 8),
		be("protocol", 8),
		be("hdr_checksum", 16),
		be("src", 32),
		be("dst", 32),
	)

	IPv6Layout = NewLayout("ipv6",
		be("version", 4),
		be("traffic_class", 8),
		be("flow_label", 20),
		be("payload_len", 16),
		be("next_hdr", 8),
		be("hop_limit", 8),
		be("src", 128),
		be("dst", 128),
	)

	ICMPLayout = NewLayout("icmp",
		be("type", 8),
		be("code", 8),
		be("hdr_checksum", 16),
	)

	EchoLayout = NewLayout("echo",
		be("id", 16),
		be("seq", 16),
	)

	TCPLayout = NewLayout("tcp",
		be("src_port", 16),
		be("dst_port", 16),
		be("seq_no", 32),
		be("ack_no", 32),
		be("data_offset", 4),
		be("res", 4),
		be("flags", 8),
		be("window", 16),
		be("checksum", 16),
		be("urgent_ptr", 16),
	)

	UDPLayout = NewLayout("udp",
		be("src_port", 16),
		be("dst_port", 16),
		be("len", 16),
		be("checksum", 16),
	)

	GeneveLayout = NewLayout("geneve",
		be("version", 2),
		be("opt_len", 6),
		be("ctrl", 1),
		be("crit", 1),
		be("reserved", 6),
		be("protocol", 16),
		be("vni", 24),
		be("reserved2", 8),
	)

	// DDMDiscoveryLayout is the fixed part of a delay-driven multipath
	// discovery message. hostname_len bytes of hostname follow it.
	DDMDiscoveryLayout = NewLayout("ddm_discovery",
		be("version", 8),
		be("flags", 8),
		be("router_kind", 8),
		be("hostname_len", 8),
	)

	BFDLayout = NewLayout("bfd",
		be("version", 3),
		be("diag", 5),
		be("status", 2),
		be("poll", 1),
		be("final", 1),
		be("control_plane_independent", 1),
		be("authentication_present", 1),
		be("demand", 1),
		be("multipoint", 1),
		be("detect_mult", 8),
		be("len", 8),
		be("my_discriminator", 32),
		be("your_discriminator", 32),
		be("desired_min_tx_interval", 32),
		be("required_min_tx_interval", 32),
		be("required_min_echo_rx_interval", 32),
	)

	// LLDPLayout has no fixed fields; its TLV payload runs to the end of the frame.
	LLDPLayout = NewLayout("lldp")
)
