//go:build !linux

package cmd

import (
	"errors"

	"golang.org/x/net/bpf"

	"firestige.xyz/overwatch/internal/config"
	"firestige.xyz/overwatch/internal/source"
)

func openLive(string, config.CaptureConfig, []bpf.RawInstruction) (source.Source, error) {
	return nil, errors.New("live capture is only supported on linux")
}
