package terminal

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/creack/pty"
)

// PTY is the master side of a pseudo-terminal.
type PTY interface {
	// File returns the PTY file descriptor.
	File() *os.File

	// Read reads command output.
	Read(p []byte) (n int, err error)

	// Write writes command input.
	Write(p []byte) (n int, err error)

	// Resize changes the window size seen by the command.
	Resize(cols, rows uint16) error

	// Close closes the PTY.
	Close() error
}

// StartPTY starts cmd attached to a new PTY of the given size.
func StartPTY(cmd *exec.Cmd, cols, rows uint16) (PTY, error) {
	f, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: cols, Rows: rows})
	if err != nil {
		return nil, fmt.Errorf("start PTY: %w", err)
	}
	return &ptmx{file: f}, nil
}

type ptmx struct {
	file *os.File
}

func (p *ptmx) File() *os.File { return p.file }

func (p *ptmx) Read(buf []byte) (int, error) { return p.file.Read(buf) }

func (p *ptmx) Write(data []byte) (int, error) { return p.file.Write(data) }

func (p *ptmx) Resize(cols, rows uint16) error {
	return pty.Setsize(p.file, &pty.Winsize{Cols: cols, Rows: rows})
}

func (p *ptmx) Close() error { return p.file.Close() }
