package main

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"
)

// console is a line-oriented terminal.
type console interface {
	io.Writer
	ReadLine() (string, error)
}

// openConsole puts an interactive stdin into raw mode and hands it to an
// x/term line editor. Piped input falls back to plain line scanning.
func openConsole() (console, func(), error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return &pipeConsole{in: bufio.NewScanner(os.Stdin), out: os.Stdout}, func() {}, nil
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, err
	}
	rw := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	t := term.NewTerminal(rw, "learn> ")
	if w, h, err := term.GetSize(fd); err == nil {
		_ = t.SetSize(w, h)
	}
	return t, func() { _ = term.Restore(fd, oldState) }, nil
}

type pipeConsole struct {
	in  *bufio.Scanner
	out io.Writer
}

func (p *pipeConsole) Write(b []byte) (int, error) {
	return p.out.Write(b)
}

func (p *pipeConsole) ReadLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.in.Text(), nil
}
