package main

import (
	"bytes"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestArrayFlagsString(t *testing.T) {
	tests := []struct {
		name     string
		flags    arrayFlags
		expected string
	}{
		{
			name:     "empty",
			flags:    arrayFlags{},
			expected: "",
		},
		{
			name:     "single",
			flags:    arrayFlags{"(de|cd)+"},
			expected: "(de|cd)+",
		},
		{
			name:     "multiple",
			flags:    arrayFlags{"(de|cd)+", "a*", "ERROR|WARN"},
			expected: "(de|cd)+, a*, ERROR|WARN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.flags.String()
			if result != tt.expected {
				t.Errorf("String() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestArrayFlagsSet(t *testing.T) {
	var flags arrayFlags

	// Test adding multiple values
	if err := flags.Set("(de|cd)+"); err != nil {
		t.Errorf("Set() returned error: %v", err)
	}
	if len(flags) != 1 || flags[0] != "(de|cd)+" {
		t.Errorf("Set() = %v, want [\"(de|cd)+\"]", flags)
	}

	if err := flags.Set("a*"); err != nil {
		t.Errorf("Set() returned error: %v", err)
	}
	if len(flags) != 2 || flags[1] != "a*" {
		t.Errorf("Set() = %v, want [\"(de|cd)+\", \"a*\"]", flags)
	}
}

// runCLI runs the command line with an empty configuration file.
func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "regvm.toml")
	if err := os.WriteFile(cfg, nil, 0644); err != nil {
		t.Fatal(err)
	}
	var out, errOut bytes.Buffer
	code = run(append([]string{"-config", cfg}, args...), strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestMatchCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		out  string
	}{
		{"match", []string{"match", "(de|cd)+", "decd"}, exitMatch, "true\n"},
		{"no match", []string{"match", "a+", ""}, exitNoMatch, "false\n"},
		{"prefix", []string{"match", "abc", "abcd"}, exitMatch, "true\n"},
		{"full", []string{"match", "-mode", "full", "abc", "abcd"}, exitNoMatch, "false\n"},
		{"search", []string{"match", "-mode", "search", "b", "abc"}, exitMatch, "true\n"},
		{"unsupported", []string{"match", "^a", "a"}, exitError, ""},
		{"bad mode", []string{"match", "-mode", "fuzzy", "a", "a"}, exitError, ""},
		{"missing subject", []string{"match", "a"}, exitError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, stderr := runCLI(t, "", tt.args...)
			if code != tt.code {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.code, stderr)
			}
			if out != tt.out {
				t.Errorf("stdout = %q, want %q", out, tt.out)
			}
		})
	}
}

func TestGrepCommand(t *testing.T) {
	input := "INFO start\nERROR disk\nWARN slow\nINFO done\n"

	tests := []struct {
		name string
		args []string
		code int
		out  string
	}{
		{"plain", []string{"grep", "ERROR"}, exitMatch, "ERROR disk\n"},
		{"numbers", []string{"grep", "-n", "ERROR|WARN"}, exitMatch, "2:ERROR disk\n3:WARN slow\n"},
		{"count", []string{"grep", "-c", "INFO"}, exitMatch, "2\n"},
		{"repeated -e", []string{"grep", "-e", "disk", "-e", "slow"}, exitMatch, "ERROR disk\nWARN slow\n"},
		{"anchored", []string{"grep", "-mode", "anchored", "disk"}, exitNoMatch, ""},
		{"no match", []string{"grep", "FATAL"}, exitNoMatch, ""},
		{"no pattern", []string{"grep"}, exitError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, stderr := runCLI(t, input, tt.args...)
			if code != tt.code {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.code, stderr)
			}
			if out != tt.out {
				t.Errorf("stdout = %q, want %q", out, tt.out)
			}
		})
	}
}

func TestGrepFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.log")
	b := filepath.Join(dir, "b.log")
	if err := os.WriteFile(a, []byte("ab\ncd\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("cd\nef\n"), 0644); err != nil {
		t.Fatal(err)
	}

	code, out, _ := runCLI(t, "", "grep", "-n", "cd", a, b)
	if code != exitMatch {
		t.Fatalf("exit code = %d", code)
	}
	want := a + ":2:cd\n" + b + ":1:cd\n"
	if out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}

	code, _, _ = runCLI(t, "", "grep", "cd", filepath.Join(dir, "missing.log"))
	if code != exitError {
		t.Errorf("missing file exit code = %d, want %d", code, exitError)
	}
}

func TestDumpCommand(t *testing.T) {
	code, out, _ := runCLI(t, "", "dump", "(de|cd)+")
	if code != exitMatch {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{
		"tree:     (de|cd)+",
		"features: Alternation, Literal, Plus",
		"program:  8 instructions",
		"  0  split 1, 4",
		"  7  match",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump output missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyzeCommand(t *testing.T) {
	code, out, _ := runCLI(t, "", "analyze", "(a+b?)+")
	if code != exitMatch {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, `"has_catastrophic_risk": true`) {
		t.Errorf("analyze output:\n%s", out)
	}
}

func TestGenCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "decd.go")
	code, _, stderr := runCLI(t, "", "gen", "-name", "Decd", "-pkg", "matchers", "-o", out, "(de|cd)+")
	if code != exitMatch {
		t.Fatalf("exit code = %d (stderr: %s)", code, stderr)
	}
	if _, err := parser.ParseFile(token.NewFileSet(), out, nil, 0); err != nil {
		t.Errorf("generated file does not parse: %v", err)
	}

	code, src, _ := runCLI(t, "", "gen", "-o", "-", "abc")
	if code != exitMatch || !strings.Contains(src, "package matchers") || !strings.Contains(src, "type Pattern struct{}") {
		t.Errorf("gen to stdout: code %d\n%s", code, src)
	}

	if code, _, _ := runCLI(t, "", "gen", "abc"); code != exitError {
		t.Errorf("gen without -o exit code = %d", code)
	}
}

func TestImageAndRun(t *testing.T) {
	img := filepath.Join(t.TempDir(), "decd.rvm")
	if code, _, stderr := runCLI(t, "", "image", "-o", img, "(de|cd)+"); code != exitMatch {
		t.Fatalf("image exit code = %d (stderr: %s)", code, stderr)
	}

	tests := []struct {
		args []string
		code int
	}{
		{[]string{"run", img, "decd"}, exitMatch},
		{[]string{"run", img, "xx"}, exitNoMatch},
		{[]string{"run", "-mode", "search", img, "xxcd"}, exitMatch},
		{[]string{"run", "-mode", "full", img, "decdx"}, exitNoMatch},
	}
	for _, tt := range tests {
		if code, _, _ := runCLI(t, "", tt.args...); code != tt.code {
			t.Errorf("%v: exit code = %d, want %d", tt.args, code, tt.code)
		}
	}

	bad := filepath.Join(t.TempDir(), "bad.rvm")
	if err := os.WriteFile(bad, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if code, _, _ := runCLI(t, "", "run", bad, "x"); code != exitError {
		t.Errorf("bad image exit code = %d", code)
	}
}

func TestConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "regvm.toml")
	if err := os.WriteFile(cfg, []byte("[match]\nmode = \"full\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	code := run([]string{"-config", cfg, "match", "abc", "abcd"}, strings.NewReader(""), &out, &bytes.Buffer{})
	if code != exitNoMatch {
		t.Errorf("config mode full: exit code = %d, want %d", code, exitNoMatch)
	}

	if err := os.WriteFile(cfg, []byte("[compile]\nmax-instructions = 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var errOut bytes.Buffer
	code = run([]string{"-config", cfg, "match", "abc", "abc"}, strings.NewReader(""), &out, &errOut)
	if code != exitError || !strings.Contains(errOut.String(), "generate") {
		t.Errorf("instruction limit: code %d, stderr %q", code, errOut.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "", "frobnicate")
	if code != exitError || !strings.Contains(stderr, "unknown command") {
		t.Errorf("code %d, stderr %q", code, stderr)
	}
	if code, _, _ := runCLI(t, ""); code != exitError {
		t.Errorf("no command exit code = %d", code)
	}
}
