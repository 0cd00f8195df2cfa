package filter

import (
	"fmt"
	"net/netip"

	"firestige.xyz/overwatch/internal/pipeline"
)

// Entry priorities. The table selects the highest priority matching entry,
// so exact keeps always win over the shared wildcard drop.
const (
	PriorityKeep = 100
	PriorityDrop = 0
)

// Entry is one match entry to install.
type Entry struct {
	Table    string
	Action   string
	Key      []byte
	Params   []byte
	Priority int
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s %x %d", e.Table, e.Action, e.Key, e.Priority)
}

// TableInstaller is the pipeline side of entry installation.
type TableInstaller interface {
	Install(table, action string, key, params []byte, priority int) error
}

// Compile translates spec into match entries. The result is deterministic:
// tables are emitted in a fixed order, keeps in the order their values were
// given, and each table gets one wildcard drop after its keeps. Repeated
// values are emitted once.
func Compile(spec Spec) []Entry {
	var c compiler
	c.layer(spec.Outer, spec.VLAN, false)
	c.exact(pipeline.TableName(pipeline.VLANVid, false), uint16Values(spec.VIDs))
	c.layer(spec.Inner, false, true)
	return c.entries
}

// Install compiles spec and installs the entries into h.
func Install(h TableInstaller, spec Spec) ([]Entry, error) {
	entries := Compile(spec)
	if err := InstallEntries(h, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// InstallEntries installs previously compiled entries in order.
func InstallEntries(h TableInstaller, entries []Entry) error {
	for _, e := range entries {
		if err := h.Install(e.Table, e.Action, e.Key, e.Params, e.Priority); err != nil {
			return fmt.Errorf("install %s: %w", e, err)
		}
	}
	return nil
}

type compiler struct {
	entries []Entry
}

func (c *compiler) layer(l LayerSpec, vlan, inner bool) {
	table := func(base string) string { return pipeline.TableName(base, inner) }

	ets := make([][]byte, 0)
	for _, et := range l.ethertypes(vlan) {
		ets = append(ets, pipeline.EncodeUint16(uint16(et)))
	}
	c.exact(table(pipeline.EthEthertype), ets)

	v4, v6 := splitAddrs(l.IPSrc)
	c.exact(table(pipeline.IPv4Src), v4)
	c.exact(table(pipeline.IPv6Src), v6)

	v4, v6 = splitAddrs(l.IPDst)
	c.exact(table(pipeline.IPv4Dst), v4)
	c.exact(table(pipeline.IPv6Dst), v6)

	v4, v6 = splitAddrs(l.IPHost)
	c.either(table(pipeline.IPv4Host), v4)
	c.either(table(pipeline.IPv6Host), v6)

	protos := make([][]byte, 0)
	for _, p := range l.IPProto {
		protos = append(protos, pipeline.EncodeUint8(uint8(p)))
	}
	c.exact(table(pipeline.IPv4Proto), protos)
	c.exact(table(pipeline.IPv6Proto), protos)

	c.exact(table(pipeline.PortsSrc), uint16Values(l.SrcPort))
	c.exact(table(pipeline.PortsDst), uint16Values(l.DstPort))
	c.either(table(pipeline.PortsPort), uint16Values(l.Port))

	alps := make([][]byte, 0)
	for _, a := range l.ALP {
		alps = append(alps, pipeline.EncodeUint8(uint8(a)))
	}
	c.exact(table(pipeline.AppProto), alps)
}

// exact emits a keep per distinct value and one shared drop.
func (c *compiler) exact(table string, values [][]byte) {
	values = dedup(values)
	if len(values) == 0 {
		return
	}
	for _, v := range values {
		c.add(table, pipeline.ActionKeep, pipeline.Exact(v), PriorityKeep)
	}
	c.add(table, pipeline.ActionDrop, pipeline.Wildcard(zero(values[0])), PriorityDrop)
}

// either emits two role-swapped keeps per distinct value and one shared drop
// for a two sub-field table.
func (c *compiler) either(table string, values [][]byte) {
	values = dedup(values)
	if len(values) == 0 {
		return
	}
	for _, v := range values {
		first, second := pipeline.Either(v)
		c.add(table, pipeline.ActionKeep, first, PriorityKeep)
		c.add(table, pipeline.ActionKeep, second, PriorityKeep)
	}
	c.add(table, pipeline.ActionDrop, pipeline.EitherWildcard(zero(values[0])), PriorityDrop)
}

func (c *compiler) add(table, action string, key []byte, priority int) {
	c.entries = append(c.entries, Entry{
		Table:    table,
		Action:   action,
		Key:      key,
		Params:   []byte{},
		Priority: priority,
	})
}

func splitAddrs(addrs []netip.Addr) (v4, v6 [][]byte) {
	for _, a := range addrs {
		a = a.Unmap()
		switch {
		case a.Is4():
			v4 = append(v4, pipeline.EncodeAddr(a))
		case a.Is6():
			v6 = append(v6, pipeline.EncodeAddr(a))
		}
	}
	return v4, v6
}

func uint16Values(vs []uint16) [][]byte {
	out := make([][]byte, 0, len(vs))
	for _, v := range vs {
		out = append(out, pipeline.EncodeUint16(v))
	}
	return out
}

func dedup(values [][]byte) [][]byte {
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, ok := seen[string(v)]; ok {
			continue
		}
		seen[string(v)] = struct{}{}
		out = append(out, v)
	}
	return out
}

func zero(v []byte) []byte {
	return make([]byte, len(v))
}
