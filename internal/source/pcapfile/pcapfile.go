// Package pcapfile replays ethernet frames from pcap and pcapng captures.
package pcapfile

import (
	"bufio"
	"bytes"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/pkg/errors"

	"firestige.xyz/overwatch/internal/core"
)

var ngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}

type packetReader interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

// Source reads frames from a capture file in file order.
type Source struct {
	path   string
	file   *os.File
	reader packetReader
}

// Open opens a capture file. The format is detected from its magic number.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open capture %s", path)
	}

	br := bufio.NewReader(f)
	magic, err := br.Peek(4)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "read capture header %s", path)
	}

	var r packetReader
	if bytes.Equal(magic, ngMagic) {
		r, err = pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
	} else {
		r, err = pcapgo.NewReader(br)
	}
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "parse capture header %s", path)
	}

	if lt := r.LinkType(); lt != layers.LinkTypeEthernet {
		f.Close()
		return nil, errors.Errorf("capture %s: link type %s is not ethernet", path, lt)
	}

	return &Source{path: path, file: f, reader: r}, nil
}

// ReadFrame returns the next frame, or io.EOF at the end of the capture.
func (s *Source) ReadFrame() ([]byte, error) {
	if s.reader == nil {
		return nil, core.ErrSourceClosed
	}
	data, _, err := s.reader.ReadPacketData()
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Source) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.reader = nil
	return errors.WithStack(err)
}
