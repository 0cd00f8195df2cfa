package decoder

import (
	"errors"
	"testing"

	"firestige.xyz/overwatch/internal/core"
)

func TestDecodeTCPClassifiesApp(t *testing.T) {
	tests := []struct {
		name string
		src  [2]byte
		dst  [2]byte
		want core.Alp
	}{
		{"bgp", [2]byte{0xC0, 0x00}, [2]byte{0x00, 0xB3}, core.AlpBGP},
		{"http reply", [2]byte{0x00, 0x50}, [2]byte{0xC0, 0x00}, core.AlpHTTP},
		{"ddm exchange", [2]byte{0xDD, 0xDD}, [2]byte{0xC0, 0x00}, core.AlpDDMExchange},
		{"other", [2]byte{0xC0, 0x00}, [2]byte{0x01, 0xBB}, core.AlpNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []byte{
				tt.src[0], tt.src[1], tt.dst[0], tt.dst[1], // Ports
				0x00, 0x00, 0x00, 0x01, // Seq
				0x00, 0x00, 0x00, 0x00, // Ack
				0x50, 0x02, 0xFF, 0xFF, // Data Offset 5, SYN, Window
				0x00, 0x00, 0x00, 0x00, // Checksum, Urgent
			}
			var layer core.Layer
			if err := decodeTCP(data, &layer); err != nil {
				t.Fatalf("decodeTCP failed: %v", err)
			}
			if layer.App != tt.want {
				t.Errorf("Expected app %v, got %v", tt.want, layer.App)
			}
		})
	}
}

func TestDecodeTCPOptionsTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x50, 0xC0, 0x00,
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00,
		0x80, 0x10, 0xFF, 0xFF, // Data Offset 8 but no options present
		0x00, 0x00, 0x00, 0x00,
	}
	var layer core.Layer
	if err := decodeTCP(data, &layer); !errors.Is(err, core.ErrPacketTooShort) {
		t.Errorf("Expected ErrPacketTooShort, got %v", err)
	}
}

func TestDecodeICMPEcho(t *testing.T) {
	data := []byte{
		0x08, 0x00, 0xF7, 0xFF, // Echo, code 0
		0x00, 0x01, 0x00, 0x02, // ID 1, Seq 2
	}
	var layer core.Layer
	if err := decodeICMP(data, &layer, false); err != nil {
		t.Fatalf("decodeICMP failed: %v", err)
	}
	if !layer.Echo.Valid {
		t.Fatal("Expected echo to be valid")
	}
	if seq := layer.Echo.Uint16("seq"); seq != 2 {
		t.Errorf("Expected seq 2, got %d", seq)
	}

	// Type 8 is not an echo type for ICMPv6
	layer = core.Layer{}
	if err := decodeICMP(data, &layer, true); err != nil {
		t.Fatalf("decodeICMP failed: %v", err)
	}
	if layer.Echo.Valid {
		t.Error("Expected no echo for icmp6 type 8")
	}
}

func TestDecodeUDPBFD(t *testing.T) {
	d := NewStandardDecoder(Config{Geneve: true})
	data := []byte{
		0xC0, 0x00, 0x0E, 0xC8, // Src Port 49152, Dst Port 3784
		0x00, 0x20, 0x00, 0x00, // Length, Checksum
		0x20, 0xC0, 0x03, 0x18, // Version 1, Up, Detect Mult 3, Length 24
		0x00, 0x00, 0x00, 0x01, // My Discriminator
		0x00, 0x00, 0x00, 0x02, // Your Discriminator
		0x00, 0x0F, 0x42, 0x40, // Desired Min TX
		0x00, 0x0F, 0x42, 0x40, // Required Min RX
		0x00, 0x00, 0x00, 0x00, // Required Min Echo RX
	}

	var chain core.Chain
	if err := d.decodeUDP(data, &chain, &chain.Outer, true); err != nil {
		t.Fatalf("decodeUDP failed: %v", err)
	}
	if chain.Outer.App != core.AlpBFD {
		t.Errorf("Expected app Bfd, got %v", chain.Outer.App)
	}
	if !chain.BFD.Valid {
		t.Fatal("Expected bfd to be valid")
	}
	if status, _ := chain.BFD.Uint("status"); status != 3 {
		t.Errorf("Expected status Up(3), got %d", status)
	}
}

func TestDecodeUDPInnerOnlyTags(t *testing.T) {
	d := NewStandardDecoder(Config{Geneve: true})
	data := []byte{
		0xDD, 0xDD, 0xDD, 0xDD, // Src/Dst Port 0xdddd
		0x00, 0x0C, 0x00, 0x00,
		0x01, 0x01, 0x00, 0x00, // DDM discovery fixed part
	}

	var chain core.Chain
	if err := d.decodeUDP(data, &chain, &chain.Inner, false); err != nil {
		t.Fatalf("decodeUDP failed: %v", err)
	}
	if chain.Inner.App != core.AlpDDMDiscovery {
		t.Errorf("Expected app DdmDiscovery, got %v", chain.Inner.App)
	}
	if chain.DDMDiscovery.Valid {
		t.Error("Expected inner ddm discovery to only set the app tag")
	}
}

func TestDecodeUDPTooShort(t *testing.T) {
	d := NewStandardDecoder(Config{})
	var chain core.Chain
	if err := d.decodeUDP([]byte{0x00, 0x35, 0x00}, &chain, &chain.Outer, true); !errors.Is(err, core.ErrPacketTooShort) {
		t.Errorf("Expected ErrPacketTooShort, got %v", err)
	}
}

func TestDecodeTransportUnsupported(t *testing.T) {
	d := NewStandardDecoder(Config{})
	var chain core.Chain
	chain.Outer.IPv4.Valid = true

	// GRE is not decoded; nothing past IP becomes valid
	if err := d.decodeTransport(core.IPProtoGRE, []byte{0, 0, 0x08, 0x00}, &chain, &chain.Outer, true); err != nil {
		t.Fatalf("decodeTransport failed: %v", err)
	}
	if chain.Outer.TCP.Valid || chain.Outer.UDP.Valid || chain.Outer.ICMP.Valid {
		t.Error("Expected no transport header")
	}
}

func BenchmarkDecodeTCP(b *testing.B) {
	data := []byte{
		0x00, 0x50, 0xC0, 0x00,
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00,
		0x50, 0x02, 0xFF, 0xFF,
		0x00, 0x00, 0x00, 0x00,
	}
	var layer core.Layer

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = decodeTCP(data, &layer)
	}
}
