package cmd

import (
	"fmt"
	"net/netip"
	"strconv"

	"github.com/spf13/pflag"

	"firestige.xyz/overwatch/internal/core"
	"firestige.xyz/overwatch/internal/filter"
)

// layerFlags holds the raw values of one layer's filter flags.
type layerFlags struct {
	ethTypes []string
	ipSrc    []string
	ipDst    []string
	ipHost   []string
	ipProto  []string
	srcPort  []string
	dstPort  []string
	port     []string
	alp      []string
	v4       bool
	v6       bool
	arp      bool
}

// filterFlags are the filter flags shared by snoop, hex-read, pcap-read
// and compile.
type filterFlags struct {
	outer layerFlags
	inner layerFlags
	vlan  bool
	vids  []string
	file  string
}

func (f *filterFlags) register(fs *pflag.FlagSet) {
	f.outer.register(fs, "", "")
	f.inner.register(fs, "inner-", "inner ")
	fs.BoolVar(&f.vlan, "vlan", false, "only 802.1Q tagged frames")
	fs.StringSliceVar(&f.vids, "vid", nil, "VLAN ids to admit")
	fs.StringVar(&f.file, "filter-file", "", "YAML filter specification merged with the flags")
}

func (l *layerFlags) register(fs *pflag.FlagSet, prefix, help string) {
	fs.StringSliceVar(&l.ethTypes, prefix+"eth-type", nil, help+"ethertypes (name or number)")
	fs.StringSliceVar(&l.ipSrc, prefix+"ip-src", nil, help+"source addresses")
	fs.StringSliceVar(&l.ipDst, prefix+"ip-dst", nil, help+"destination addresses")
	fs.StringSliceVar(&l.ipHost, prefix+"ip-host", nil, help+"addresses in either direction")
	fs.StringSliceVar(&l.ipProto, prefix+"ip-proto", nil, help+"IP protocols (name or number)")
	fs.StringSliceVar(&l.srcPort, prefix+"src-port", nil, help+"source ports")
	fs.StringSliceVar(&l.dstPort, prefix+"dst-port", nil, help+"destination ports")
	fs.StringSliceVar(&l.port, prefix+"port", nil, help+"ports in either direction")
	fs.StringSliceVar(&l.alp, prefix+"alp", nil, help+"application protocols (bgp, http, ddm-discovery, ddm-exchange, geneve, bfd)")
	fs.BoolVar(&l.v4, prefix+"v4", false, help+"IPv4 only")
	fs.BoolVar(&l.v6, prefix+"v6", false, help+"IPv6 only")
	fs.BoolVar(&l.arp, prefix+"arp", false, help+"ARP only")
}

// spec parses the flags and merges the filter file named by the flag or,
// failing that, by fallbackFile.
func (f *filterFlags) spec(fallbackFile string) (filter.Spec, error) {
	outer, err := f.outer.spec()
	if err != nil {
		return filter.Spec{}, err
	}
	inner, err := f.inner.spec()
	if err != nil {
		return filter.Spec{}, fmt.Errorf("inner: %w", err)
	}
	vids, err := parseEach(f.vids, parseVID)
	if err != nil {
		return filter.Spec{}, fmt.Errorf("vid: %w", err)
	}
	spec := filter.Spec{Outer: outer, Inner: inner, VLAN: f.vlan, VIDs: vids}

	file := f.file
	if file == "" {
		file = fallbackFile
	}
	if file != "" {
		fromFile, err := filter.LoadFile(file)
		if err != nil {
			return filter.Spec{}, err
		}
		spec = spec.Merge(fromFile)
	}
	return spec, nil
}

func (l *layerFlags) spec() (s filter.LayerSpec, err error) {
	if s.EthTypes, err = parseEach(l.ethTypes, core.ParseEthertype); err != nil {
		return s, fmt.Errorf("eth-type: %w", err)
	}
	if s.IPSrc, err = parseEach(l.ipSrc, parseAddr); err != nil {
		return s, fmt.Errorf("ip-src: %w", err)
	}
	if s.IPDst, err = parseEach(l.ipDst, parseAddr); err != nil {
		return s, fmt.Errorf("ip-dst: %w", err)
	}
	if s.IPHost, err = parseEach(l.ipHost, parseAddr); err != nil {
		return s, fmt.Errorf("ip-host: %w", err)
	}
	if s.IPProto, err = parseEach(l.ipProto, core.ParseIPProto); err != nil {
		return s, fmt.Errorf("ip-proto: %w", err)
	}
	if s.SrcPort, err = parseEach(l.srcPort, parsePort); err != nil {
		return s, fmt.Errorf("src-port: %w", err)
	}
	if s.DstPort, err = parseEach(l.dstPort, parsePort); err != nil {
		return s, fmt.Errorf("dst-port: %w", err)
	}
	if s.Port, err = parseEach(l.port, parsePort); err != nil {
		return s, fmt.Errorf("port: %w", err)
	}
	if s.ALP, err = parseEach(l.alp, core.ParseAlp); err != nil {
		return s, fmt.Errorf("alp: %w", err)
	}
	s.IPv4Only, s.IPv6Only, s.ARPOnly = l.v4, l.v6, l.arp
	return s, nil
}

func parseEach[T any](raw []string, parse func(string) (T, error)) ([]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		v, err := parse(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseAddr(s string) (netip.Addr, error) {
	a, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%q: %w", s, core.ErrBadFilter)
	}
	return a, nil
}

func parsePort(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("port %q: %w", s, core.ErrBadFilter)
	}
	return uint16(n), nil
}

func parseVID(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil || n > 4095 {
		return 0, fmt.Errorf("vlan id %q: %w", s, core.ErrBadFilter)
	}
	return uint16(n), nil
}
