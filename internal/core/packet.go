// Package core defines the decoded header chain.
package core

// Layer is the header topology repeated for the outer frame and for a
// tunneled inner frame.
type Layer struct {
	Ethernet Header
	ARP      Header
	IPv4     Header
	IPv6     Header
	ICMP     Header
	Echo     Header
	TCP      Header
	UDP      Header

	// App is the application-layer protocol tag assigned by the parser, 0 if none.
	App Alp
}

// Chain is the decoded header chain of one frame.
type Chain struct {
	Outer Layer

	VLAN         Header
	Sidecar      Header
	LLDP         Header
	DDMDiscovery Header
	BFD          Header
	Geneve       Header

	Inner Layer
}

// Reset invalidates every header so the chain can be reused for the next frame.
func (c *Chain) Reset() {
	c.Outer.reset()
	c.Inner.reset()
	for _, h := range []*Header{&c.VLAN, &c.Sidecar, &c.LLDP, &c.DDMDiscovery, &c.BFD, &c.Geneve} {
		h.Reset()
	}
}

func (l *Layer) reset() {
	for _, h := range []*Header{&l.Ethernet, &l.ARP, &l.IPv4, &l.IPv6, &l.ICMP, &l.Echo, &l.TCP, &l.UDP} {
		h.Reset()
	}
	l.App = 0
}

// Validate checks the per-layer invariants of the chain.
func (c *Chain) Validate() error {
	if c.Outer.IPv4.Valid && c.Outer.IPv6.Valid {
		return ErrBothIPVersions
	}
	if c.Inner.IPv4.Valid && c.Inner.IPv6.Valid {
		return ErrBothIPVersions
	}
	return nil
}

// Transport returns the valid transport header of the layer, if any.
func (l *Layer) Transport() (Header, bool) {
	switch {
	case l.TCP.Valid:
		return l.TCP, true
	case l.UDP.Valid:
		return l.UDP, true
	}
	return Header{}, false
}
