package render

import (
	"strings"
	"testing"
)

func TestLLDPLines(t *testing.T) {
	data := []byte{
		0x02, 0x07, 0x04, 0x00, 0x11, 0x22, 0x33, 0x44, 0x55, // Chassis ID: MAC
		0x04, 0x05, 0x05, 'e', 't', 'h', '0', // Port ID: interface name
		0x06, 0x02, 0x00, 0x78, // TTL 120
		0x0A, 0x03, 's', 'w', '1', // System Name
		0x00, 0x00, // End
	}

	lines := lldpLines(Plain, data)
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines, got %q", lines)
	}
	if lines[0] != "Lldp | ChassisID 00:11:22:33:44:55" {
		t.Errorf("Unexpected chassis line %q", lines[0])
	}
	if lines[1] != "     | PortId eth0" {
		t.Errorf("Unexpected port line %q", lines[1])
	}
	if lines[2] != "     | TTL 120" {
		t.Errorf("Unexpected TTL line %q", lines[2])
	}
	if lines[3] != "     | System Name sw1" {
		t.Errorf("Unexpected system name line %q", lines[3])
	}
}

func TestLLDPParseError(t *testing.T) {
	lines := lldpLines(Plain, []byte{0x02, 0x07, 0x04})
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "<unable to parse lldp packet: ") {
		t.Errorf("Expected a single parse error line, got %q", lines)
	}
}

func TestLLDPTLVHelpers(t *testing.T) {
	mgmt := []byte{0x05, 0x01, 192, 0, 2, 1, 0x02, 0x00, 0x00, 0x00, 0x07, 0x00}
	if got := mgmtAddress(mgmt); got != "address 192.0.2.1 interface 2/7" {
		t.Errorf("Unexpected management address %q", got)
	}

	org := []byte{0x00, 0x80, 0xC2, 0x01, 0x00, 0x64}
	if got := orgSpecific(org); got != "oui 00:80:c2 subtype 1 info 0064" {
		t.Errorf("Unexpected org specific %q", got)
	}
}
