package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
)

const usageText = `seqview shows a sequence of images.

Usage:
  seqview [-f N | --frame N] [-c FILE | --config FILE] <file>...
  seqview (-h | --help)
  seqview --version

Options:
  -f --frame N     Index of the first frame shown [default: 0].
  -c --config FILE YAML configuration file.
  -h --help        Show this screen.
  --version        Show version.
`

// ArgumentError reports malformed command line input.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string {
	return e.Msg
}

type args struct {
	Files      []string
	Frame      int
	ConfigPath string
	Version    bool
}

func usage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// parseArgs accepts options before, between and after the file names.
// flag.ErrHelp is returned for -h and --help.
func parseArgs(argv []string) (args, error) {
	var a args
	fs := flag.NewFlagSet("seqview", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	frame := frameValue{index: &a.Frame}
	fs.Var(frame, "f", "")
	fs.Var(frame, "frame", "")
	fs.StringVar(&a.ConfigPath, "c", "", "")
	fs.StringVar(&a.ConfigPath, "config", "", "")
	fs.BoolVar(&a.Version, "version", false, "")

	rest := argv
	for {
		if err := fs.Parse(rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return args{}, err
			}
			return args{}, &ArgumentError{Msg: err.Error()}
		}
		remaining := fs.Args()
		if len(remaining) == 0 {
			break
		}
		consumed := len(rest) - len(remaining)
		if consumed > 0 && rest[consumed-1] == "--" {
			a.Files = append(a.Files, remaining...)
			break
		}
		a.Files = append(a.Files, remaining[0])
		rest = remaining[1:]
	}

	if a.Version {
		return a, nil
	}
	if len(a.Files) == 0 {
		return args{}, &ArgumentError{Msg: "no image files given"}
	}
	if a.Frame < 0 || a.Frame >= len(a.Files) {
		return args{}, &ArgumentError{Msg: fmt.Sprintf("frame %d out of range for %d file(s)", a.Frame, len(a.Files))}
	}
	return a, nil
}

// frameValue is an int flag shared by -f and --frame.
type frameValue struct {
	index *int
}

func (v frameValue) String() string {
	if v.index == nil {
		return "0"
	}
	return strconv.Itoa(*v.index)
}

func (v frameValue) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("frame must be an integer, got %q", s)
	}
	*v.index = n
	return nil
}
