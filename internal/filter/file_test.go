package filter

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/overwatch/internal/core"
)

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "filter.yaml")

	content := `
vlan: true
vid: [100, 200]
outer:
  eth_type: [ipv4, 0x86dd]
  ip_host: [10.0.0.5, "fd00::1"]
  ip_proto: [tcp, 17]
  port: [179]
inner:
  v6: true
  alp: [bgp, ddm-discovery]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	spec, err := LoadFile(path)
	require.NoError(t, err)

	assert.True(t, spec.VLAN)
	assert.Equal(t, []uint16{100, 200}, spec.VIDs)
	assert.Equal(t, []core.Ethertype{core.EthertypeIPv4, core.EthertypeIPv6}, spec.Outer.EthTypes)
	assert.Equal(t, []netip.Addr{netip.MustParseAddr("10.0.0.5"), netip.MustParseAddr("fd00::1")}, spec.Outer.IPHost)
	assert.Equal(t, []core.IPProto{core.IPProtoTCP, core.IPProtoUDP}, spec.Outer.IPProto)
	assert.Equal(t, []uint16{179}, spec.Outer.Port)
	assert.True(t, spec.Inner.IPv6Only)
	assert.Equal(t, []core.Alp{core.AlpBGP, core.AlpDDMDiscovery}, spec.Inner.ALP)
}

func TestParseRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad address", "outer:\n  ip_src: [not-an-ip]\n"},
		{"bad ethertype", "outer:\n  eth_type: [bogus]\n"},
		{"unknown key", "outer:\n  colour: red\n"},
		{"not yaml", "outer: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
