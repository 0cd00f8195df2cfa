package log

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"

	"firestige.xyz/overwatch/internal/config"
)

// MultiWriter fans log output out to every appender. A failing appender
// does not stop the others.
type MultiWriter struct {
	writers []io.Writer
}

func (m *MultiWriter) Write(p []byte) (n int, err error) {
	for _, w := range m.writers {
		_, e := w.Write(p)
		if e != nil {
			err = e
		}
	}
	return len(p), err
}

func (m *MultiWriter) Add(writer io.Writer) *MultiWriter {
	m.writers = append(m.writers, writer)
	return m
}

// AddFileAppender appends a size rotated log file.
func (m *MultiWriter) AddFileAppender(fc config.FileOutputConfig) *MultiWriter {
	return m.Add(&lumberjack.Logger{
		Filename:   fc.Path,
		MaxSize:    fc.Rotation.MaxSizeMB,
		MaxBackups: fc.Rotation.MaxBackups,
		MaxAge:     fc.Rotation.MaxAgeDays,
		Compress:   fc.Rotation.Compress,
	})
}

func (m *MultiWriter) Len() int { return len(m.writers) }

func NewMultiWriter() *MultiWriter {
	return &MultiWriter{writers: make([]io.Writer, 0)}
}
