package render

import (
	"encoding/binary"
	"fmt"
	"net"
	"net/netip"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// lldpLines renders the TLVs of an LLDP payload. A payload that does not
// parse renders as a single diagnostic line.
func lldpLines(st Style, data []byte) []string {
	pkt := gopacket.NewPacket(data, layers.LayerTypeLinkLayerDiscovery, gopacket.DecodeOptions{NoCopy: true})
	if el := pkt.ErrorLayer(); el != nil {
		return []string{fmt.Sprintf("<unable to parse lldp packet: %v>", el.Error())}
	}
	l, ok := pkt.Layer(layers.LayerTypeLinkLayerDiscovery).(*layers.LinkLayerDiscovery)
	if !ok {
		return []string{"<unable to parse lldp packet: no lldp layer>"}
	}

	label := layerLabel(st, "Lldp")
	space := layerLabel(st, "")
	lines := []string{
		label + " " + field(st, "ChassisID", chassisID(l.ChassisID)),
		space + " " + field(st, "PortId", portID(l.PortID)),
		space + " " + field(st, "TTL", itoa(int(l.TTL))),
	}

	var mgmt, org []string
	for _, v := range l.Values {
		switch v.Type {
		case layers.LLDPTLVPortDescription:
			lines = append(lines, space+" "+field(st, "PortDescription", string(v.Value)))
		case layers.LLDPTLVSysName:
			lines = append(lines, space+" "+field(st, "System Name", string(v.Value)))
		case layers.LLDPTLVSysDescription:
			lines = append(lines, space+" "+field(st, "System Description", string(v.Value)))
		case layers.LLDPTLVMgmtAddress:
			mgmt = append(mgmt, mgmtAddress(v.Value))
		case layers.LLDPTLVOrgSpecific:
			org = append(org, orgSpecific(v.Value))
		}
	}

	if len(mgmt) > 0 {
		lines = append(lines, space+" "+st.Dim("Management addresses:"))
		for _, m := range mgmt {
			lines = append(lines, space+"\t"+m)
		}
	}
	if len(org) > 0 {
		lines = append(lines, space+" "+st.Dim("Organizationally Specific:"))
		for _, o := range org {
			lines = append(lines, space+"\t"+o)
		}
	}
	return lines
}

// Chassis and port ID subtypes carrying addresses (IEEE 802.1AB 8.5.2, 8.5.3).
const (
	chassisIDMAC     = 4
	chassisIDNetAddr = 5
	portIDMAC        = 3
	portIDNetAddr    = 4
)

func chassisID(c layers.LLDPChassisID) string {
	switch c.Subtype {
	case chassisIDMAC:
		return net.HardwareAddr(c.ID).String()
	case chassisIDNetAddr:
		return networkAddress(c.ID)
	}
	return string(c.ID)
}

func portID(p layers.LLDPPortID) string {
	switch p.Subtype {
	case portIDMAC:
		return net.HardwareAddr(p.ID).String()
	case portIDNetAddr:
		return networkAddress(p.ID)
	}
	return string(p.ID)
}

// networkAddress renders an address family byte followed by the address.
func networkAddress(b []byte) string {
	if len(b) < 1 {
		return ""
	}
	if addr, ok := netip.AddrFromSlice(b[1:]); ok {
		return addr.String()
	}
	return fmt.Sprintf("%x", b)
}

// mgmtAddress renders a management address TLV: address string length,
// family, address, interface numbering subtype, interface number, OID.
func mgmtAddress(v []byte) string {
	if len(v) < 1 {
		return fmt.Sprintf("%x", v)
	}
	n := int(v[0])
	if n < 1 || len(v) < 1+n+5 {
		return fmt.Sprintf("%x", v)
	}
	addr := networkAddress(v[1 : 1+n])
	ifSubtype := v[1+n]
	ifNumber := binary.BigEndian.Uint32(v[2+n : 6+n])
	return fmt.Sprintf("address %s interface %d/%d", addr, ifSubtype, ifNumber)
}

// orgSpecific renders an organizationally specific TLV: OUI, subtype, info.
func orgSpecific(v []byte) string {
	if len(v) < 4 {
		return fmt.Sprintf("%x", v)
	}
	return fmt.Sprintf("oui %02x:%02x:%02x subtype %d info %x", v[0], v[1], v[2], v[3], v[4:])
}
