// Package decoder implements protocol decoding.
package decoder

import (
	"firestige.xyz/overwatch/internal/core"
)

const (
	// Well-known UDP ports
	genevePort = 6081
)

// decodeGeneve decodes the Geneve header and, when it carries transparent
// ethernet bridging, the inner frame behind its options.
func (d *StandardDecoder) decodeGeneve(data []byte, chain *core.Chain) error {
	if err := chain.Geneve.Set(core.GeneveLayout, data); err != nil {
		return err
	}

	// Geneve header format:
	// 0: Version (2 bits) + Opt Len (6 bits, 4-byte units)
	// 1: O + C flags
	// 2-3: Protocol Type
	// 4-6: VNI
	optLen, _ := chain.Geneve.Uint("opt_len")
	headerLen := core.GeneveLayout.Size() + int(optLen)*4
	if len(data) < headerLen {
		return core.ErrPacketTooShort
	}

	if core.Ethertype(chain.Geneve.Uint16("protocol")) != core.EthertypeEthernet {
		return nil
	}
	return d.decodeLayer(data[headerLen:], chain, &chain.Inner, false)
}
