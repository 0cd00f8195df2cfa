package render

import (
	"strings"

	"firestige.xyz/overwatch/internal/core"
)

// Fixed header lengths in bytes.
var (
	ethernetLen = core.EthernetLayout.Size()
	vlanLen     = core.VLANLayout.Size()
	sidecarLen  = core.SidecarLayout.Size()
	arpLen      = core.ARPLayout.Size()
	ipv6Len     = core.IPv6Layout.Size()
	icmpLen     = core.ICMPLayout.Size()
	echoLen     = core.EchoLayout.Size()
	udpLen      = core.UDPLayout.Size()
	ddmLen      = core.DDMDiscoveryLayout.Size()
	bfdLen      = core.BFDLayout.Size()
	geneveLen   = core.GeneveLayout.Size()
)

// walker renders a chain while tracking the byte offset of the next header.
type walker struct {
	st    Style
	frame []byte
	off   int
	lines []string
}

func (w *walker) emit(d descriptor, h core.Header) {
	if s, ok := d.line(w.st, h); ok {
		w.lines = append(w.lines, s)
	}
}

// rest returns the frame from the current offset, empty past the end.
func (w *walker) rest() []byte {
	if w.off >= len(w.frame) {
		return nil
	}
	return w.frame[w.off:]
}

func (w *walker) walk(c *core.Chain) {
	l := &c.Outer

	if l.Ethernet.Valid {
		w.emit(ethernetDesc(len(w.frame), true), l.Ethernet)
		w.off += ethernetLen
	}
	if c.VLAN.Valid {
		w.emit(vlanDesc, c.VLAN)
		w.off += vlanLen
	}
	if c.Sidecar.Valid {
		w.emit(sidecarDesc, c.Sidecar)
		w.off += sidecarLen
	}
	if c.LLDP.Valid {
		w.lines = append(w.lines, lldpLines(w.st, w.rest())...)
	}

	v6Start := w.network(l)
	w.transport(l, v6Start)

	if c.DDMDiscovery.Valid {
		w.emit(ddmDesc(w.rest()), c.DDMDiscovery)
		w.off += ddmLen
	}
	if c.BFD.Valid {
		w.emit(bfdDesc, c.BFD)
		w.off += bfdLen
	}
	if c.Geneve.Valid {
		w.emit(geneveDesc, c.Geneve)
		w.lines = append(w.lines, w.st.Dim(encapSeparator))
		olen, _ := c.Geneve.Uint("opt_len")
		w.off += geneveLen + int(olen)*4
	}

	w.inner(&c.Inner)
}

func (w *walker) inner(l *core.Layer) {
	if l.Ethernet.Valid {
		w.emit(ethernetDesc(0, false), l.Ethernet)
		w.off += ethernetLen
	}
	w.network(l)
	w.transport(l, -1)
}

// network renders arp or ip and icmp. It returns the offset of the IPv6
// header, or -1.
func (w *walker) network(l *core.Layer) int {
	v6Start := -1

	if l.ARP.Valid {
		w.emit(arpDesc, l.ARP)
		w.off += arpLen
	}

	switch {
	case l.IPv4.Valid:
		ihl, _ := l.IPv4.Uint("ihl")
		w.emit(ipv4Desc, l.IPv4)
		w.off += int(ihl) << 2
		w.icmp(l, icmpDesc)
	case l.IPv6.Valid:
		v6Start = w.off
		w.emit(ipv6Desc, l.IPv6)
		w.off += ipv6Len
		w.icmp(l, icmp6Desc)
	}
	return v6Start
}

func (w *walker) icmp(l *core.Layer, d descriptor) {
	if !l.ICMP.Valid {
		return
	}
	w.emit(d, l.ICMP)
	w.off += icmpLen
	if l.Echo.Valid {
		w.emit(echoDesc, l.Echo)
		w.off += echoLen
	}
}

// transport renders tcp or udp. When v6Start is not negative the UDP
// checksum is checked against the one computed over the IPv6 packet.
func (w *walker) transport(l *core.Layer, v6Start int) {
	if l.TCP.Valid {
		off, _ := l.TCP.Uint("data_offset")
		w.emit(tcpDesc, l.TCP)
		w.off += int(off) << 2
	}
	if l.UDP.Valid {
		var expected uint16
		var ok bool
		if v6Start >= 0 && v6Start < len(w.frame) {
			expected, ok = udp6Checksum(w.frame[v6Start:])
		}
		w.emit(udpDesc(expected, ok), l.UDP)
		w.off += udpLen
	}
}

// hostname slices n bytes of name after the fixed discovery header,
// replacing invalid UTF-8.
func hostname(rest []byte, n int) string {
	start := ddmLen
	if start > len(rest) {
		return ""
	}
	end := start + n
	if end > len(rest) {
		end = len(rest)
	}
	return strings.ToValidUTF8(string(rest[start:end]), "\uFFFD")
}
