// Package decoder implements the parser that turns raw frames into header chains.
package decoder

import (
	"fmt"

	"firestige.xyz/overwatch/internal/core"
)

// Decoder decodes a raw frame into a header chain.
type Decoder interface {
	Decode(frame []byte, chain *core.Chain) error
}

// Config controls which encapsulations and application headers are parsed.
type Config struct {
	Geneve     bool   // Decapsulate Geneve (default true through config)
	GenevePort uint16 // UDP destination port for Geneve (0 = 6081)
}

// StandardDecoder is a stateless parser for the fixed header topology:
// ethernet, vlan, sidecar, lldp, arp, ipv4|ipv6, icmp, echo, tcp|udp,
// ddm discovery, bfd, geneve and the inner frame behind geneve.
type StandardDecoder struct {
	geneve     bool
	genevePort uint16
}

// NewStandardDecoder creates a decoder.
func NewStandardDecoder(cfg Config) *StandardDecoder {
	if cfg.GenevePort == 0 {
		cfg.GenevePort = genevePort
	}
	return &StandardDecoder{
		geneve:     cfg.Geneve,
		genevePort: cfg.GenevePort,
	}
}

// Decode resets chain and fills it from frame. Headers decoded before a
// truncation stay valid; the truncation is returned as ErrPacketTooShort.
func (d *StandardDecoder) Decode(frame []byte, chain *core.Chain) error {
	chain.Reset()
	if err := d.decodeLayer(frame, chain, &chain.Outer, true); err != nil {
		return fmt.Errorf("decode %d byte frame: %w", len(frame), err)
	}
	return nil
}

// decodeLayer decodes one ethernet frame. Outer-only headers (vlan, sidecar,
// lldp, application headers, geneve) are recorded only when outer is set.
func (d *StandardDecoder) decodeLayer(data []byte, chain *core.Chain, layer *core.Layer, outer bool) error {
	etherType, payload, err := decodeEthernet(data, layer)
	if err != nil {
		return err
	}

	if outer {
		etherType, payload, err = decodeLinkExtensions(etherType, payload, chain)
		if err != nil {
			return err
		}
		if etherType == core.EthertypeLLDP {
			return nil
		}
	}

	var proto core.IPProto
	switch etherType {
	case core.EthertypeARP:
		return layer.ARP.Set(core.ARPLayout, payload)
	case core.EthertypeIPv4:
		proto, payload, err = decodeIPv4(payload, layer)
	case core.EthertypeIPv6:
		proto, payload, err = decodeIPv6(payload, layer)
	default:
		return nil
	}
	if err != nil {
		return err
	}

	return d.decodeTransport(proto, payload, chain, layer, outer)
}
