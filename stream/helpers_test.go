package stream

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/KromDaniel/regvm/pkg/regvm"
)

func contains(s string) Predicate {
	return func(line []byte) (bool, error) {
		return bytes.Contains(line, []byte(s)), nil
	}
}

func TestLineFilter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		pred     Predicate
		expected string
	}{
		{
			name:     "keep lines containing ERROR",
			input:    "INFO: starting\nERROR: failed\nINFO: done\nERROR: another\n",
			pred:     contains("ERROR"),
			expected: "ERROR: failed\nERROR: another\n",
		},
		{
			name:  "keep all lines",
			input: "line1\nline2\nline3\n",
			pred: func(line []byte) (bool, error) {
				return true, nil
			},
			expected: "line1\nline2\nline3\n",
		},
		{
			name:  "keep no lines",
			input: "line1\nline2\nline3\n",
			pred: func(line []byte) (bool, error) {
				return false, nil
			},
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			pred:     contains(""),
			expected: "",
		},
		{
			name:     "single line without newline",
			input:    "single line",
			pred:     contains("single"),
			expected: "single line",
		},
		{
			name:  "predicate sees line without terminator",
			input: "abc\r\nab\nabc",
			pred: func(line []byte) (bool, error) {
				return string(line) == "abc", nil
			},
			expected: "abc\r\nabc",
		},
		{
			name:  "empty lines are subjects too",
			input: "\nx\n\n",
			pred: func(line []byte) (bool, error) {
				return len(line) == 0, nil
			},
			expected: "\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := LineFilter(strings.NewReader(tt.input), tt.pred)
			var buf bytes.Buffer
			_, err := io.Copy(&buf, r)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if buf.String() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, buf.String())
			}
		})
	}
}

func TestLineFilterWithPattern(t *testing.T) {
	re := regvm.MustCompile("(de|cd)+")
	input := "decd\nxdecd\ncdcd tail\nabc\n"

	tests := []struct {
		name     string
		match    func(string) (bool, error)
		expected string
	}{
		{"anchored", re.MatchString, "decd\ncdcd tail\n"},
		{"full", re.MatchFullString, "decd\n"},
		{"search", re.SearchString, "decd\nxdecd\ncdcd tail\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := LineFilter(strings.NewReader(input), func(line []byte) (bool, error) {
				return tt.match(string(line))
			})
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestLineFilterPartialReads(t *testing.T) {
	input := "line1\nline2\nline3\n"
	r := LineFilter(strings.NewReader(input), contains("2"))

	// Read one byte at a time
	var result bytes.Buffer
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		result.Write(buf[:n])
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if result.String() != "line2\n" {
		t.Errorf("expected %q, got %q", "line2\n", result.String())
	}
}

func TestLineFilterLargeInput(t *testing.T) {
	var input strings.Builder
	for i := 0; i < 10000; i++ {
		if i%100 == 0 {
			input.WriteString("MATCH line\n")
		} else {
			input.WriteString("other line\n")
		}
	}

	// A small buffer forces lines to straddle chunk boundaries
	r := LineFilterWith(strings.NewReader(input.String()), Config{BufferSize: 7}, contains("MATCH"))
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := strings.Repeat("MATCH line\n", 100); string(got) != want {
		t.Errorf("got %d bytes, want %d", len(got), len(want))
	}
}

func TestLineFilterPredicateError(t *testing.T) {
	boom := errors.New("boom")
	r := LineFilter(strings.NewReader("ok\nok\nbad\nok\n"), func(line []byte) (bool, error) {
		if string(line) == "bad" {
			return false, boom
		}
		return true, nil
	})

	got, err := io.ReadAll(r)
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error %q should name the line", err)
	}
	if string(got) != "ok\nok\n" {
		t.Errorf("output before the error = %q", got)
	}
}

func TestLineTooLong(t *testing.T) {
	r := LineFilterWith(strings.NewReader("short\n"+strings.Repeat("x", 64)), Config{BufferSize: 8, MaxLineLength: 16}, contains(""))
	_, err := io.ReadAll(r)
	if !errors.Is(err, ErrLineTooLong) {
		t.Errorf("error = %v, want ErrLineTooLong", err)
	}
}

func TestEach(t *testing.T) {
	type hit struct {
		No   int
		Text string
	}
	var hits []hit
	err := Each(strings.NewReader("a\nb\r\nab\nba"), DefaultConfig(), contains("b"), func(no int, line []byte) bool {
		hits = append(hits, hit{no, string(line)})
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []hit{{2, "b"}, {3, "ab"}, {4, "ba"}}
	if diff := cmp.Diff(want, hits); diff != "" {
		t.Errorf("Each() mismatch (-want +got):\n%s", diff)
	}

	calls := 0
	err = Each(strings.NewReader("b\nb\nb\n"), DefaultConfig(), contains("b"), func(int, []byte) bool {
		calls++
		return false
	})
	if err != nil || calls != 1 {
		t.Errorf("early stop: calls = %d, err = %v", calls, err)
	}
}

func TestCountMatches(t *testing.T) {
	re := regvm.MustCompile("a+b")
	n, err := CountMatches(strings.NewReader("ab\naab\nb\nabab\nba\n"), func(line []byte) (bool, error) {
		return re.MatchFullString(string(line))
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("CountMatches() = %d, want 2", n)
	}
}

func BenchmarkLineFilter(b *testing.B) {
	re := regvm.MustCompile("(ERROR|WARN)")
	input := strings.Repeat("INFO: normal log line\nERROR: something failed\n", 1000)
	pred := func(line []byte) (bool, error) {
		return re.SearchString(string(line))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := LineFilter(strings.NewReader(input), pred)
		io.Copy(io.Discard, r)
	}
}
