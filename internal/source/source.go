// Package source defines the frame sources feeding the snoop loop.
package source

// Source yields raw ethernet frames one at a time. Batch sources return
// io.EOF after the last frame; live sources block until a frame arrives.
type Source interface {
	ReadFrame() ([]byte, error)
	Close() error
}
