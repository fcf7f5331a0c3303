// Package prompt asks yes/no questions on the terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Default controls what an empty answer means.
type Default int

const (
	// DefaultYes treats <Enter> as yes.
	DefaultYes Default = iota
	// DefaultNo treats <Enter> as no.
	DefaultNo
	// NoDefault keeps asking until the user answers.
	NoDefault
)

// Prompter reads answers from In and writes questions to Out.
type Prompter struct {
	In  io.Reader
	Out io.Writer
}

// New returns a Prompter on stdin/stdout.
func New() *Prompter {
	return &Prompter{In: os.Stdin, Out: os.Stdout}
}

var valid = map[string]bool{
	"yes": true, "ye": true, "y": true,
	"no": false, "n": false,
}

// Confirm asks question and returns the user's answer. Unrecognized
// input re-prompts; EOF counts as no.
func (p *Prompter) Confirm(question string, def Default) bool {
	var suffix string
	switch def {
	case DefaultYes:
		suffix = " [Y/n] "
	case DefaultNo:
		suffix = " [y/N] "
	default:
		suffix = " [y/n] "
	}

	scanner := bufio.NewScanner(p.In)
	for {
		fmt.Fprint(p.Out, question+suffix)
		if !scanner.Scan() {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if answer == "" && def != NoDefault {
			return def == DefaultYes
		}
		if v, ok := valid[answer]; ok {
			return v
		}
		fmt.Fprintln(p.Out, "Please respond with 'yes' or 'no' (or 'y' or 'n').")
	}
}
