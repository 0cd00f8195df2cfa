package filter

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/overwatch/internal/core"
	"firestige.xyz/overwatch/internal/pipeline"
)

func entriesFor(entries []Entry, table string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Table == table {
			out = append(out, e)
		}
	}
	return out
}

func TestCompileEmptySpec(t *testing.T) {
	assert.Empty(t, Compile(Spec{}))
	assert.True(t, Spec{}.Empty())
}

func TestCompileSingleValue(t *testing.T) {
	spec := Spec{Outer: LayerSpec{IPProto: []core.IPProto{core.IPProtoTCP}}}
	entries := Compile(spec)

	for _, table := range []string{"ingress_ipv4_proto", "ingress_ipv6_proto"} {
		got := entriesFor(entries, table)
		require.Len(t, got, 2, table)

		assert.Equal(t, pipeline.ActionKeep, got[0].Action)
		assert.Equal(t, []byte{1, 6}, got[0].Key)
		assert.Equal(t, PriorityKeep, got[0].Priority)
		assert.Empty(t, got[0].Params)

		assert.Equal(t, pipeline.ActionDrop, got[1].Action)
		assert.Equal(t, byte(0), got[1].Key[0])
		assert.Equal(t, PriorityDrop, got[1].Priority)
	}
	assert.Len(t, entries, 4)
}

func TestCompileEitherDirection(t *testing.T) {
	spec := Spec{Outer: LayerSpec{IPHost: []netip.Addr{netip.MustParseAddr("10.0.0.5")}}}
	got := entriesFor(Compile(spec), "ingress_ipv4_host")
	require.Len(t, got, 3)

	assert.Equal(t, []byte{1, 5, 0, 0, 10, 0, 5, 0, 0, 10}, got[0].Key)
	assert.Equal(t, []byte{0, 5, 0, 0, 10, 1, 5, 0, 0, 10}, got[1].Key)
	assert.Equal(t, pipeline.ActionKeep, got[0].Action)
	assert.Equal(t, pipeline.ActionKeep, got[1].Action)
	assert.Equal(t, PriorityKeep, got[1].Priority)

	assert.Equal(t, pipeline.ActionDrop, got[2].Action)
	assert.Equal(t, byte(0), got[2].Key[0])
	assert.Equal(t, byte(0), got[2].Key[5])
	assert.Equal(t, PriorityDrop, got[2].Priority)
}

func TestCompileSharedDropAndDedup(t *testing.T) {
	spec := Spec{Outer: LayerSpec{
		SrcPort: []uint16{53, 123, 53},
	}}
	got := entriesFor(Compile(spec), "ingress_ports_src")
	require.Len(t, got, 3)

	assert.Equal(t, []byte{1, 0x35, 0x00}, got[0].Key)
	assert.Equal(t, []byte{1, 0x7b, 0x00}, got[1].Key)
	assert.Equal(t, pipeline.ActionDrop, got[2].Action)
}

func TestCompileIdempotent(t *testing.T) {
	spec := Spec{
		Outer: LayerSpec{
			EthTypes: []core.Ethertype{core.EthertypeIPv6},
			IPSrc:    []netip.Addr{netip.MustParseAddr("fd00::1"), netip.MustParseAddr("10.0.0.1")},
			Port:     []uint16{179},
			ALP:      []core.Alp{core.AlpBGP},
		},
		Inner: LayerSpec{IPv4Only: true, DstPort: []uint16{80}},
		VLAN:  true,
		VIDs:  []uint16{100},
	}

	assert.Equal(t, Compile(spec), Compile(spec))
}

func TestCompileAddressFamilies(t *testing.T) {
	spec := Spec{Outer: LayerSpec{IPDst: []netip.Addr{
		netip.MustParseAddr("::ffff:192.0.2.1"),
		netip.MustParseAddr("2001:db8::1"),
	}}}
	entries := Compile(spec)

	v4 := entriesFor(entries, "ingress_ipv4_dst")
	require.Len(t, v4, 2)
	assert.Equal(t, []byte{1, 1, 2, 0, 192}, v4[0].Key)

	v6 := entriesFor(entries, "ingress_ipv6_dst")
	require.Len(t, v6, 2)
	assert.Len(t, v6[0].Key, 17)
	assert.Equal(t, byte(0x20), v6[0].Key[16])
}

func TestCompileShorthandsAndInner(t *testing.T) {
	spec := Spec{
		Outer: LayerSpec{IPv4Only: true, EthTypes: []core.Ethertype{core.EthertypeIPv4}},
		Inner: LayerSpec{ARPOnly: true, SrcPort: []uint16{22}},
		VLAN:  true,
		VIDs:  []uint16{100},
	}
	entries := Compile(spec)

	outer := entriesFor(entries, "ingress_eth_ethertype")
	require.Len(t, outer, 3)
	assert.Equal(t, []byte{1, 0x00, 0x08}, outer[0].Key)
	assert.Equal(t, []byte{1, 0x00, 0x81}, outer[1].Key)

	vid := entriesFor(entries, "ingress_vlan_vid")
	require.Len(t, vid, 2)
	assert.Equal(t, []byte{1, 100, 0}, vid[0].Key)

	inner := entriesFor(entries, "ingress_inner_eth_ethertype")
	require.Len(t, inner, 2)
	assert.Equal(t, []byte{1, 0x06, 0x08}, inner[0].Key)

	assert.Len(t, entriesFor(entries, "ingress_inner_ports_src"), 2)
	assert.Empty(t, entriesFor(entries, "ingress_ports_src"))
}

func TestInstallIntoPipeline(t *testing.T) {
	spec := Spec{
		Outer: LayerSpec{IPHost: []netip.Addr{netip.MustParseAddr("10.0.0.5")}, Port: []uint16{179}},
		Inner: LayerSpec{IPv6Only: true, ALP: []core.Alp{core.AlpBGP}},
		VIDs:  []uint16{7},
	}
	p := pipeline.New(pipeline.Config{})

	entries, err := Install(p, spec)
	require.NoError(t, err)
	assert.Len(t, entries, 3+3+2+2+2)

	tbl, ok := p.Table("ingress_inner_app_proto")
	require.True(t, ok)
	assert.Equal(t, 2, tbl.Len())
}

type failingInstaller struct{}

func (failingInstaller) Install(string, string, []byte, []byte, int) error {
	return core.ErrUnknownTable
}

func TestInstallPropagatesErrors(t *testing.T) {
	spec := Spec{Outer: LayerSpec{SrcPort: []uint16{1}}}
	_, err := Install(failingInstaller{}, spec)
	assert.ErrorIs(t, err, core.ErrUnknownTable)
}

func TestMerge(t *testing.T) {
	a := Spec{Outer: LayerSpec{SrcPort: []uint16{1}}, VIDs: []uint16{10}}
	b := Spec{Outer: LayerSpec{SrcPort: []uint16{2}, IPv6Only: true}, VLAN: true}

	m := a.Merge(b)
	assert.Equal(t, []uint16{1, 2}, m.Outer.SrcPort)
	assert.True(t, m.Outer.IPv6Only)
	assert.True(t, m.VLAN)
	assert.Equal(t, []uint16{10}, m.VIDs)
	assert.Equal(t, []uint16{1}, a.Outer.SrcPort)
}
