package render

import (
	"encoding/binary"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// udp6Checksum computes the UDP checksum the IPv6 packet in data should
// carry. ok is false when data does not decode as IPv6 carrying UDP.
func udp6Checksum(data []byte) (sum uint16, ok bool) {
	pkt := gopacket.NewPacket(data, layers.LayerTypeIPv6, gopacket.DecodeOptions{Lazy: true, NoCopy: true})
	ip6, _ := pkt.Layer(layers.LayerTypeIPv6).(*layers.IPv6)
	udp, _ := pkt.Layer(layers.LayerTypeUDP).(*layers.UDP)
	if ip6 == nil || udp == nil {
		return 0, false
	}

	// Serialize a copy so the decoded layer keeps the stored checksum.
	out := *udp
	if err := out.SetNetworkLayerForChecksum(ip6); err != nil {
		return 0, false
	}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, &out, gopacket.Payload(udp.Payload)); err != nil {
		return 0, false
	}
	b := buf.Bytes()
	if len(b) < 8 {
		return 0, false
	}
	return binary.BigEndian.Uint16(b[6:8]), true
}
