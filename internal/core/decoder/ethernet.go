// Package decoder implements protocol decoding.
package decoder

import (
	"firestige.xyz/overwatch/internal/core"
)

// decodeEthernet decodes the ethernet header into layer.
// Returns the ethertype and the remaining payload.
func decodeEthernet(data []byte, layer *core.Layer) (core.Ethertype, []byte, error) {
	if err := layer.Ethernet.Set(core.EthernetLayout, data); err != nil {
		return 0, nil, err
	}
	etherType := core.Ethertype(layer.Ethernet.Uint16("ether_type"))
	return etherType, data[core.EthernetLayout.Size():], nil
}

// decodeLinkExtensions handles the headers that may follow the outer ethernet
// header: one VLAN tag, the sidecar header and LLDP. LLDP has no fixed part;
// its presence is recorded and its TLVs are left in the frame.
func decodeLinkExtensions(etherType core.Ethertype, data []byte, chain *core.Chain) (core.Ethertype, []byte, error) {
	if etherType == core.EthertypeVLAN {
		if err := chain.VLAN.Set(core.VLANLayout, data); err != nil {
			return 0, nil, err
		}
		etherType = core.Ethertype(chain.VLAN.Uint16("ether_type"))
		data = data[core.VLANLayout.Size():]
	}

	if etherType == core.EthertypeSidecar {
		if err := chain.Sidecar.Set(core.SidecarLayout, data); err != nil {
			return 0, nil, err
		}
		etherType = core.Ethertype(chain.Sidecar.Uint16("sc_ether_type"))
		data = data[core.SidecarLayout.Size():]
	}

	if etherType == core.EthertypeLLDP {
		if err := chain.LLDP.Set(core.LLDPLayout, data); err != nil {
			return 0, nil, err
		}
	}

	return etherType, data, nil
}
