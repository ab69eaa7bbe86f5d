package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

var errInputClosed = errors.New("input closed")

// readPassword is replaced in tests.
var readPassword = term.ReadPassword

// prompter reads answers line by line from the shell input.
type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
	// fd is the terminal file descriptor of the input, or -1.
	fd int
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &prompter{scanner: bufio.NewScanner(in), out: out, fd: fd}
}

// line reads the next input line.
func (p *prompter) line() (string, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// ask prints label and returns the answer, or def when the answer is empty.
func (p *prompter) ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	v, err := p.line()
	if err != nil {
		return "", err
	}
	if v == "" {
		return def, nil
	}
	return v, nil
}

// askInt is ask for integer fields; an empty answer keeps def.
func (p *prompter) askInt(label string, def int) (int, error) {
	d := ""
	if def != 0 {
		d = strconv.Itoa(def)
	}
	for {
		v, err := p.ask(label, d)
		if err != nil {
			return 0, err
		}
		if v == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(v)
		if err == nil {
			return n, nil
		}
		fmt.Fprintf(p.out, "%q is not a number\n", v)
	}
}

// askOptionalYear returns nil for an empty answer or "-", keeping def otherwise.
func (p *prompter) askOptionalYear(label string, def *int) (*int, error) {
	d := ""
	if def != nil {
		d = strconv.Itoa(*def)
	}
	for {
		v, err := p.ask(label+" (empty or - if unknown)", d)
		if err != nil {
			return nil, err
		}
		if v == "" || v == "-" {
			return nil, nil
		}
		n, err := strconv.Atoi(v)
		if err == nil {
			return &n, nil
		}
		fmt.Fprintf(p.out, "%q is not a year\n", v)
	}
}

// choose offers numbered options; the answer may be a number or a value.
func (p *prompter) choose(label string, options []string, def string) (string, error) {
	for i, o := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, o)
	}
	v, err := p.ask(label, def)
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], nil
	}
	return v, nil
}

// list reads a comma-separated answer.
func (p *prompter) list(label string, def []string) ([]string, error) {
	v, err := p.ask(label+" (comma-separated)", strings.Join(def, ", "))
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// password reads a secret without echo when the input is a terminal.
func (p *prompter) password(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	if p.fd < 0 {
		return p.line()
	}
	b, err := readPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
