package main

import (
	"bytes"
	"errors"
	"flag"
	"reflect"
	"strings"
	"testing"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want args
	}{
		{
			name: "files only",
			argv: []string{"a.png", "b.png"},
			want: args{Files: []string{"a.png", "b.png"}},
		},
		{
			name: "short frame before files",
			argv: []string{"-f", "1", "a.png", "b.png"},
			want: args{Files: []string{"a.png", "b.png"}, Frame: 1},
		},
		{
			name: "long frame after files",
			argv: []string{"a.png", "b.png", "c.png", "--frame", "2"},
			want: args{Files: []string{"a.png", "b.png", "c.png"}, Frame: 2},
		},
		{
			name: "frame with equals",
			argv: []string{"a.png", "--frame=1", "b.png"},
			want: args{Files: []string{"a.png", "b.png"}, Frame: 1},
		},
		{
			name: "config",
			argv: []string{"-c", "seqview.yaml", "a.png"},
			want: args{Files: []string{"a.png"}, ConfigPath: "seqview.yaml"},
		},
		{
			name: "dash dash ends options",
			argv: []string{"a.png", "--", "-f", "b.png"},
			want: args{Files: []string{"a.png", "-f", "b.png"}},
		},
		{
			name: "version needs no files",
			argv: []string{"--version"},
			want: args{Version: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.argv)
			if err != nil {
				t.Fatalf("parseArgs(%q) error = %v", tt.argv, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("parseArgs(%q) = %+v, want %+v", tt.argv, got, tt.want)
			}
		})
	}
}

func TestParseArgsRejects(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{name: "no files", argv: nil},
		{name: "frame past end", argv: []string{"-f", "2", "a.png", "b.png"}},
		{name: "negative frame", argv: []string{"a.png", "--frame", "-1"}},
		{name: "frame not a number", argv: []string{"a.png", "-f", "ten"}},
		{name: "frame missing value", argv: []string{"a.png", "-f"}},
		{name: "unknown flag", argv: []string{"--speed", "10", "a.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(tt.argv)
			var argErr *ArgumentError
			if !errors.As(err, &argErr) {
				t.Fatalf("parseArgs(%q) error = %v, want *ArgumentError", tt.argv, err)
			}
		})
	}
}

func TestParseArgsHelp(t *testing.T) {
	for _, argv := range [][]string{{"-h"}, {"--help"}, {"a.png", "-h"}} {
		if _, err := parseArgs(argv); !errors.Is(err, flag.ErrHelp) {
			t.Errorf("parseArgs(%q) error = %v, want flag.ErrHelp", argv, err)
		}
	}
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		argv   []string
		code   int
		stdout string
		stderr string
	}{
		{name: "help", argv: []string{"--help"}, code: 0, stdout: "Usage:"},
		{name: "version", argv: []string{"--version"}, code: 0, stdout: "seqview dev"},
		{name: "usage error", argv: nil, code: 2, stderr: "no image files given"},
		{name: "bad frame", argv: []string{"-f", "5", "a.png"}, code: 2, stderr: "out of range"},
		{name: "missing config", argv: []string{"-c", "/nonexistent/seqview.yaml", "a.png"}, code: 1, stderr: "config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.argv, &stdout, &stderr)
			if code != tt.code {
				t.Fatalf("run(%q) = %d, want %d (stderr %q)", tt.argv, code, tt.code, stderr.String())
			}
			if tt.stdout != "" && !strings.Contains(stdout.String(), tt.stdout) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.stdout)
			}
			if tt.stderr != "" && !strings.Contains(stderr.String(), tt.stderr) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.stderr)
			}
		})
	}
}
