package cmd

import (
	"bytes"
	"context"
	"io"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"firestige.xyz/overwatch/internal/config"
	"firestige.xyz/overwatch/internal/core"
	"firestige.xyz/overwatch/internal/filter"
	"firestige.xyz/overwatch/internal/source/hexfile"
)

const (
	arpHex = `ffffffffffff aabbccddeeff 0806
0001 0800 06 04 0001
aabbccddeeff 0a000001
000000000000 0a000002`

	ipv4Hex = `001122334455 aabbccddeeff 0800
4500001c 00000000 40010000 0a000001 0a000002
08000000 00010001`
)

// MockSource is a frame source driven by expectations.
type MockSource struct {
	mock.Mock
}

func (m *MockSource) ReadFrame() ([]byte, error) {
	args := m.Called()
	frame, _ := args.Get(0).([]byte)
	return frame, args.Error(1)
}

func (m *MockSource) Close() error {
	args := m.Called()
	return args.Error(0)
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func parseFilterFlags(t *testing.T, args ...string) (filter.Spec, error) {
	t.Helper()
	var ff filterFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	ff.register(fs)
	require.NoError(t, fs.Parse(args))
	return ff.spec("")
}

func TestFilterFlags(t *testing.T) {
	spec, err := parseFilterFlags(t,
		"--eth-type", "IPv4,0x86dd",
		"--ip-host", "10.0.0.1",
		"--ip-proto", "udp",
		"--port", "53", "--port", "5353",
		"--alp", "ddm-discovery",
		"--vlan", "--vid", "100",
		"--inner-v6",
		"--inner-dst-port", "179",
	)
	require.NoError(t, err)

	assert.Equal(t, []core.Ethertype{core.EthertypeIPv4, core.EthertypeIPv6}, spec.Outer.EthTypes)
	assert.Equal(t, []netip.Addr{netip.MustParseAddr("10.0.0.1")}, spec.Outer.IPHost)
	assert.Equal(t, []core.IPProto{core.IPProtoUDP}, spec.Outer.IPProto)
	assert.Equal(t, []uint16{53, 5353}, spec.Outer.Port)
	assert.Equal(t, []core.Alp{core.AlpDDMDiscovery}, spec.Outer.ALP)
	assert.True(t, spec.VLAN)
	assert.Equal(t, []uint16{100}, spec.VIDs)
	assert.True(t, spec.Inner.IPv6Only)
	assert.Equal(t, []uint16{179}, spec.Inner.DstPort)
	assert.False(t, spec.Outer.IPv6Only)
}

func TestFilterFlagsRejectBadValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"address", []string{"--ip-src", "10.0.0"}},
		{"port", []string{"--src-port", "70000"}},
		{"vid", []string{"--vid", "4096"}},
		{"ethertype", []string{"--eth-type", "ipx"}},
		{"inner alp", []string{"--inner-alp", "smtp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFilterFlags(t, tt.args...)
			assert.ErrorIs(t, err, core.ErrBadFilter)
		})
	}
}

func TestFilterFlagsMergeFile(t *testing.T) {
	path := writeFile(t, "filter.yml", "outer:\n  ip_host: [10.0.0.2]\n")

	spec, err := parseFilterFlags(t, "--ip-host", "10.0.0.1", "--filter-file", path)
	require.NoError(t, err)
	assert.Len(t, spec.Outer.IPHost, 2)
}

func TestCompileCommand(t *testing.T) {
	out, _, err := execute(t, "compile", "--arp")
	require.NoError(t, err)

	assert.Equal(t, "ingress_eth_ethertype keep 010608 100\ningress_eth_ethertype drop 000000 0\n", out)
}

func TestCompileCommandPrefilter(t *testing.T) {
	out, _, err := execute(t, "compile", "--v4", "--prefilter")
	require.NoError(t, err)
	assert.Contains(t, out, "# ")

	out, _, err = execute(t, "compile", "--prefilter")
	require.NoError(t, err)
	assert.Equal(t, "# no prefilter\n", out)
}

func TestHexReadCommand(t *testing.T) {
	path := writeFile(t, "frames.hex", arpHex+"\n\n"+ipv4Hex+"\n")

	out, _, err := execute(t, "hex-read", path, "--arp", "--color", "never")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "=====|\n"))
	assert.Contains(t, out, "Arp  | 10.0.0.1/aa:bb:cc:dd:ee:ff > 10.0.0.2/00:00:00:00:00:00 op Request")
	assert.NotContains(t, out, "Ip4  |")
}

func TestHexReadCommandHexDump(t *testing.T) {
	path := writeFile(t, "frames.hex", ipv4Hex+"\n")

	out, _, err := execute(t, "hex-read", path, "--hex")
	require.NoError(t, err)
	assert.Contains(t, out, "Ip4  | 10.0.0.1 > 10.0.0.2")
	assert.Contains(t, out, "-----| 00000000  00 11 22 33 44 55")
}

func TestHexReadCommandBadFile(t *testing.T) {
	path := writeFile(t, "frames.hex", "0011\nxyz\n")

	_, _, err := execute(t, "hex-read", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBadHex)
}

func TestPcapReadCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.pcap")
	f, err := os.Create(path)
	require.NoError(t, err)

	w := pcapgo.NewWriter(f)
	require.NoError(t, w.WriteFileHeader(65535, layers.LinkTypeEthernet))

	buf := gopacket.NewSerializeBuffer()
	require.NoError(t, gopacket.SerializeLayers(buf, gopacket.SerializeOptions{FixLengths: true},
		&layers.Ethernet{
			SrcMAC:       []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF},
			DstMAC:       []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
			EthernetType: layers.EthernetTypeIPv4,
		},
		&layers.IPv4{
			Version:  4,
			TTL:      64,
			Protocol: layers.IPProtocolUDP,
			SrcIP:    []byte{10, 0, 0, 1},
			DstIP:    []byte{10, 0, 0, 2},
		},
		&layers.UDP{SrcPort: 3784, DstPort: 3784},
		gopacket.Payload(make([]byte, 24)),
	))
	frame := buf.Bytes()
	require.NoError(t, w.WritePacket(gopacket.CaptureInfo{
		Timestamp:     time.Unix(1700000000, 0),
		CaptureLength: len(frame),
		Length:        len(frame),
	}, frame))
	require.NoError(t, f.Close())

	out, _, err := execute(t, "pcap-read", path, "--alp", "bfd")
	require.NoError(t, err)
	assert.Contains(t, out, "UDP  | 3784 > 3784")
	assert.Contains(t, out, "Bfd  |")
}

func TestSnoopRequiresLink(t *testing.T) {
	_, _, err := execute(t, "snoop")
	assert.Error(t, err)
}

func TestInvalidLogLevelFlag(t *testing.T) {
	_, _, err := execute(t, "compile", "--log-level", "chatty")
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestRunSourceClosesSource(t *testing.T) {
	frames, err := hexfile.Parse(strings.NewReader(arpHex))
	require.NoError(t, err)
	require.Len(t, frames, 1)
	frame := frames[0]

	src := new(MockSource)
	src.On("ReadFrame").Return(frame, nil).Once()
	src.On("ReadFrame").Return(nil, io.EOF).Once()
	src.On("Close").Return(nil).Once()

	cfg, err := config.Load("")
	require.NoError(t, err)

	var out bytes.Buffer
	err = runSource(context.Background(), cfg, src, &out, runOptions{name: "mock"})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Arp  |")
	src.AssertExpectations(t)
}
