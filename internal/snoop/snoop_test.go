package snoop

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/overwatch/internal/core"
	"firestige.xyz/overwatch/internal/filter"
	"firestige.xyz/overwatch/internal/pipeline"
	"firestige.xyz/overwatch/internal/render"
)

// scriptedSource replays frames and errors in order, then io.EOF.
type scriptedSource struct {
	items  []interface{}
	closed bool
}

func (s *scriptedSource) ReadFrame() ([]byte, error) {
	if len(s.items) == 0 {
		return nil, io.EOF
	}
	it := s.items[0]
	s.items = s.items[1:]
	if err, ok := it.(error); ok {
		return nil, err
	}
	return it.([]byte), nil
}

func (s *scriptedSource) Close() error {
	s.closed = true
	return nil
}

func arpFrame(op byte) []byte {
	return []byte{
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF,
		0x08, 0x06,
		0x00, 0x01, 0x08, 0x00, 0x06, 0x04, 0x00, op,
		0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, 0x0A, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x0A, 0x00, 0x00, 0x02,
	}
}

func ipv4Frame() []byte {
	return []byte{
		0x00, 0x11, 0x22, 0x33, 0x44, 0x55,
		0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF,
		0x08, 0x00,
		0x45, 0x00, 0x00, 0x1C, 0x00, 0x00, 0x00, 0x00,
		0x40, 0x01, 0x00, 0x00,
		0x0A, 0x00, 0x00, 0x01, 0x0A, 0x00, 0x00, 0x02,
		0x08, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01,
	}
}

func arpOnlyPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	p := pipeline.New(pipeline.Config{})
	_, err := filter.Install(p, filter.Spec{Outer: filter.LayerSpec{ARPOnly: true}})
	require.NoError(t, err)
	return p
}

func TestRunRendersAdmittedFrames(t *testing.T) {
	src := &scriptedSource{items: []interface{}{arpFrame(1), ipv4Frame(), arpFrame(2)}}
	var out bytes.Buffer

	err := New(src, arpOnlyPipeline(t), render.New(&out), Options{Name: "test"}).Run(context.Background())
	require.NoError(t, err)

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "=====|\n"))
	assert.Equal(t, 2, strings.Count(text, "Arp  |"))
	assert.NotContains(t, text, "Ip4  |")
	assert.Contains(t, text, "op Request")
	assert.Contains(t, text, "op Reply")
	assert.Equal(t, 3, strings.Count(text, "=====|"))
}

func TestRunSeparatorOnEmptySource(t *testing.T) {
	var out bytes.Buffer
	err := New(&scriptedSource{}, pipeline.New(pipeline.Config{}), render.New(&out), Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "=====|\n", out.String())
}

func TestRunLiveSkipsReadErrors(t *testing.T) {
	src := &scriptedSource{items: []interface{}{
		errors.New("ring poll failed"),
		arpFrame(1),
	}}
	var out bytes.Buffer

	err := New(src, pipeline.New(pipeline.Config{}), render.New(&out), Options{Name: "eth0", Live: true}).Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Arp  |")
}

func TestRunBatchFailsOnReadError(t *testing.T) {
	src := &scriptedSource{items: []interface{}{arpFrame(1), core.ErrBadHex}}
	var out bytes.Buffer

	err := New(src, pipeline.New(pipeline.Config{}), render.New(&out), Options{}).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBadHex)
	assert.Contains(t, out.String(), "Arp  |")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &scriptedSource{items: []interface{}{arpFrame(1)}}
	var out bytes.Buffer
	err := New(src, pipeline.New(pipeline.Config{}), render.New(&out), Options{}).Run(ctx)
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "Arp  |")
}

type failingOutput struct{}

func (failingOutput) Separator() error                { return nil }
func (failingOutput) Frame(*core.Chain, []byte) error { return io.ErrShortWrite }

func TestRunOutputError(t *testing.T) {
	src := &scriptedSource{items: []interface{}{arpFrame(1)}}
	err := New(src, pipeline.New(pipeline.Config{}), failingOutput{}, Options{}).Run(context.Background())
	assert.ErrorIs(t, err, io.ErrShortWrite)
}
