//go:build linux

// Package afpacket captures frames from a network link through a
// TPACKET_V3 memory mapped ring.
package afpacket

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/gopacket/afpacket"
	"github.com/pkg/errors"
	"golang.org/x/net/bpf"

	"firestige.xyz/overwatch/internal/core"
)

const (
	DefaultSnapLen      = 9000
	DefaultBufferSizeMB = 8
	DefaultPollTimeout  = 100 * time.Millisecond
)

// Config describes a capture. Zero values take the defaults above.
type Config struct {
	Device       string
	SnapLen      int
	BufferSizeMB int
	PollTimeout  time.Duration
	FanoutID     uint16
	Promiscuous  bool
	Filter       []bpf.RawInstruction
}

// Source reads frames from one link. ReadFrame blocks until a frame
// arrives; poll timeouts are absorbed.
type Source struct {
	handle  *afpacket.TPacket
	promisc *promiscGuard
	stopped atomic.Bool
}

// Open creates the ring on cfg.Device and attaches the filter, if any.
func Open(cfg Config) (*Source, error) {
	if cfg.Device == "" {
		return nil, errors.Wrap(core.ErrConfigInvalid, "capture link is required")
	}
	if cfg.SnapLen == 0 {
		cfg.SnapLen = DefaultSnapLen
	}
	if cfg.BufferSizeMB == 0 {
		cfg.BufferSizeMB = DefaultBufferSizeMB
	}
	if cfg.PollTimeout == 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}

	frameSize, blockSize, numBlocks, err := ringSize(cfg.BufferSizeMB, cfg.SnapLen, os.Getpagesize())
	if err != nil {
		return nil, errors.WithMessagef(err, "ring for %s", cfg.Device)
	}

	tp, err := afpacket.NewTPacket(
		afpacket.OptInterface(cfg.Device),
		afpacket.OptFrameSize(frameSize),
		afpacket.OptBlockSize(blockSize),
		afpacket.OptNumBlocks(numBlocks),
		afpacket.OptPollTimeout(cfg.PollTimeout),
		afpacket.OptAddVLANHeader(true),
		afpacket.SocketRaw,
		afpacket.TPacketVersion3,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "open capture on %s", cfg.Device)
	}

	s := &Source{handle: tp}
	if err := s.setup(cfg); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Source) setup(cfg Config) error {
	if cfg.FanoutID > 0 {
		if err := s.handle.SetFanout(afpacket.FanoutHashWithDefrag, cfg.FanoutID); err != nil {
			return errors.Wrapf(err, "fanout group %d", cfg.FanoutID)
		}
	}
	if len(cfg.Filter) > 0 {
		if err := s.handle.SetBPF(cfg.Filter); err != nil {
			return errors.Wrap(err, "attach bpf filter")
		}
	}
	if cfg.Promiscuous {
		g, err := enablePromisc(cfg.Device)
		if err != nil {
			return err
		}
		s.promisc = g
	}
	return nil
}

// ReadFrame returns a copy of the next frame. A VLAN tag stripped by the
// kernel is reinserted, so tagged frames keep their 802.1Q header.
func (s *Source) ReadFrame() ([]byte, error) {
	for {
		if s.stopped.Load() {
			return nil, io.EOF
		}
		if s.handle == nil {
			return nil, core.ErrSourceClosed
		}
		data, _, err := s.handle.ReadPacketData()
		if err == afpacket.ErrTimeout {
			continue
		}
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return data, nil
	}
}

// Stop makes a blocked ReadFrame return io.EOF within one poll timeout.
// It is safe to call from another goroutine.
func (s *Source) Stop() { s.stopped.Store(true) }

// Close releases the ring and restores the link flags.
func (s *Source) Close() error {
	if s.handle == nil {
		return nil
	}
	s.handle.Close()
	s.handle = nil
	if s.promisc != nil {
		err := s.promisc.restore()
		s.promisc = nil
		return err
	}
	return nil
}
