// Package pipeline implements pipeline construction.
package pipeline

import (
	"firestige.xyz/overwatch/internal/core/decoder"
)

// Builder provides a fluent interface for building pipelines.
// This is an alternative to using Config directly.
type Builder struct {
	config Config
	geneve bool
	port   uint16
}

// NewBuilder creates a new pipeline builder.
func NewBuilder() *Builder {
	return &Builder{geneve: true}
}

// WithDecoder sets the frame decoder. It overrides WithGeneve.
func (b *Builder) WithDecoder(d decoder.Decoder) *Builder {
	b.config.Decoder = d
	return b
}

// WithGeneve enables or disables Geneve decapsulation on the given UDP port
// (0 for the default port).
func (b *Builder) WithGeneve(enabled bool, port uint16) *Builder {
	b.geneve = enabled
	b.port = port
	return b
}

// Build creates the pipeline.
func (b *Builder) Build() *Pipeline {
	if b.config.Decoder == nil {
		b.config.Decoder = decoder.NewStandardDecoder(decoder.Config{
			Geneve:     b.geneve,
			GenevePort: b.port,
		})
	}
	return New(b.config)
}
