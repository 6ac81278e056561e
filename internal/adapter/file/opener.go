package file

import (
	"io"
	"os"
)

// Stdin is the source name that reads from standard input.
const Stdin = "-"

// Opener opens TDV sources from the local filesystem.
// It implements pipeline.SourceOpener.
type Opener struct {
	stdin io.Reader
}

// NewOpener creates an Opener that maps "-" to os.Stdin.
func NewOpener() *Opener {
	return &Opener{stdin: os.Stdin}
}

// Open opens the named file for reading.
func (o *Opener) Open(name string) (io.ReadCloser, error) {
	if name == Stdin {
		return io.NopCloser(o.stdin), nil
	}
	return os.Open(name)
}
