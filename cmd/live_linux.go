//go:build linux

package cmd

import (
	"golang.org/x/net/bpf"

	"firestige.xyz/overwatch/internal/config"
	"firestige.xyz/overwatch/internal/source"
	"firestige.xyz/overwatch/internal/source/afpacket"
)

func openLive(link string, cc config.CaptureConfig, prog []bpf.RawInstruction) (source.Source, error) {
	return afpacket.Open(afpacket.Config{
		Device:       link,
		SnapLen:      cc.SnapLen,
		BufferSizeMB: cc.BufferSizeMB,
		PollTimeout:  cc.PollTimeoutDuration(),
		FanoutID:     cc.FanoutID,
		Promiscuous:  cc.Promiscuous,
		Filter:       prog,
	})
}
