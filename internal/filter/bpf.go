package filter

import (
	"fmt"

	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
	"golang.org/x/net/bpf"

	"firestige.xyz/overwatch/internal/core"
)

const ethertypeOffset = 12

// Prefilter returns a classic BPF program admitting only frames whose outer
// ethertype is one of the spec's ethertypes, or nil when the spec places no
// constraint on the outer ethertype. An 802.1Q ethertype also admits frames
// whose tag the kernel has stripped into packet metadata.
func Prefilter(spec Spec, snapLen int) ([]bpf.RawInstruction, error) {
	ets := spec.Outer.ethertypes(spec.VLAN)
	if len(ets) == 0 {
		return nil, nil
	}
	if len(ets) > 250 {
		return nil, fmt.Errorf("%d ethertypes: %w", len(ets), core.ErrBadFilter)
	}

	var prog []bpf.Instruction
	if containsEthertype(ets, core.EthertypeVLAN) {
		// skip the ethertype load, the comparisons and the reject
		prog = append(prog,
			bpf.LoadExtension{Num: bpf.ExtVLANTagPresent},
			bpf.JumpIf{Cond: bpf.JumpNotEqual, Val: 0, SkipTrue: uint8(len(ets) + 2)},
		)
	}
	prog = append(prog, bpf.LoadAbsolute{Off: ethertypeOffset, Size: 2})
	for i, et := range ets {
		prog = append(prog, bpf.JumpIf{
			Cond:     bpf.JumpEqual,
			Val:      uint32(et),
			SkipTrue: uint8(len(ets) - i),
		})
	}
	prog = append(prog,
		bpf.RetConstant{Val: 0},
		bpf.RetConstant{Val: uint32(snapLen)},
	)

	raw, err := bpf.Assemble(prog)
	if err != nil {
		return nil, fmt.Errorf("assemble prefilter: %w", err)
	}
	return raw, nil
}

func containsEthertype(ets []core.Ethertype, et core.Ethertype) bool {
	for _, e := range ets {
		if e == et {
			return true
		}
	}
	return false
}

// CompileBPF compiles a tcpdump expression for ethernet links.
func CompileBPF(expr string, snapLen int) ([]bpf.RawInstruction, error) {
	pcapBpf, err := pcap.CompileBPFFilter(layers.LinkTypeEthernet, snapLen, expr)
	if err != nil {
		return nil, fmt.Errorf("failed to compile BPF filter: %w", err)
	}

	rawBpf := make([]bpf.RawInstruction, len(pcapBpf))
	for i, ins := range pcapBpf {
		rawBpf[i] = bpf.RawInstruction{Op: ins.Code, Jt: ins.Jt, Jf: ins.Jf, K: ins.K}
	}
	return rawBpf, nil
}
