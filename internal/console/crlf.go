package console

import (
	"bytes"
	"io"
	"sync/atomic"
)

// CRLFWriter passes writes through unchanged until raw mode is switched on,
// then ends every line with CRLF. Log output goes through one so it does not
// staircase while the console owns the terminal.
type CRLFWriter struct {
	w   io.Writer
	raw atomic.Bool
}

// NewCRLFWriter wraps w
func NewCRLFWriter(w io.Writer) *CRLFWriter {
	return &CRLFWriter{w: w}
}

// SetRaw switches the line ending translation on or off
func (c *CRLFWriter) SetRaw(on bool) {
	c.raw.Store(on)
}

func (c *CRLFWriter) Write(p []byte) (int, error) {
	if !c.raw.Load() {
		return c.w.Write(p)
	}
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
