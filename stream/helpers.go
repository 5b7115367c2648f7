package stream

import (
	"bytes"
	"fmt"
	"io"
)

// LineFilter returns an io.Reader that only outputs lines matching the
// predicate. Lines are delimited by '\n'. Kept lines are written unchanged,
// newline included.
//
// Example - keep only lines accepted by a pattern:
//
//	re := regvm.MustCompile("ERROR|WARN")
//	r := stream.LineFilter(input, func(line []byte) (bool, error) {
//	    return re.MatchString(string(line))
//	})
//	io.Copy(os.Stdout, r)
func LineFilter(r io.Reader, pred Predicate) io.Reader {
	return LineFilterWith(r, DefaultConfig(), pred)
}

// LineFilterWith is LineFilter with an explicit Config.
func LineFilterWith(r io.Reader, cfg Config, pred Predicate) io.Reader {
	return &lineFilterReader{
		lines: newSplitter(r, cfg),
		pred:  pred,
	}
}

// Each calls fn with the 1-based line number and text of every line accepted
// by pred. Returning false from fn stops the scan early.
func Each(r io.Reader, cfg Config, pred Predicate, fn func(lineNo int, line []byte) bool) error {
	s := newSplitter(r, cfg)
	for {
		line, err := s.next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		text := trimEOL(line)
		ok, err := pred(text)
		if err != nil {
			return fmt.Errorf("line %d: %w", s.lineNo, err)
		}
		if ok && !fn(s.lineNo, text) {
			return nil
		}
	}
}

// CountMatches reads r to the end and returns the number of lines accepted
// by pred.
func CountMatches(r io.Reader, pred Predicate) (int, error) {
	count := 0
	err := Each(r, DefaultConfig(), pred, func(int, []byte) bool {
		count++
		return true
	})
	return count, err
}

func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte{'\n'})
	return bytes.TrimSuffix(line, []byte{'\r'})
}

// lineFilterReader implements io.Reader for LineFilter.
type lineFilterReader struct {
	lines *splitter
	pred  Predicate

	// Output buffer (lines that passed the filter)
	output      []byte
	outputStart int

	err error
}

func (r *lineFilterReader) Read(p []byte) (n int, err error) {
	for r.outputStart == len(r.output) {
		if r.err != nil {
			return 0, r.err
		}
		r.output = r.output[:0]
		r.outputStart = 0
		r.processMore()
	}

	n = copy(p, r.output[r.outputStart:])
	r.outputStart += n
	return n, nil
}

// processMore moves the next kept line into the output buffer, or records
// the error that ends the stream.
func (r *lineFilterReader) processMore() {
	for {
		line, err := r.lines.next()
		if err != nil {
			r.err = err
			return
		}

		ok, err := r.pred(trimEOL(line))
		if err != nil {
			r.err = fmt.Errorf("line %d: %w", r.lines.lineNo, err)
			return
		}
		if ok {
			r.output = append(r.output, line...)
			return
		}
	}
}

// splitter cuts a reader into '\n' terminated lines.
type splitter struct {
	source io.Reader
	cfg    Config

	// Input buffer; buf[start:] is not yet consumed
	buf       []byte
	start     int
	sourceEOF bool

	lineNo int
}

func newSplitter(r io.Reader, cfg Config) *splitter {
	cfg = cfg.ApplyDefaults()
	return &splitter{
		source: r,
		cfg:    cfg,
		buf:    make([]byte, 0, cfg.BufferSize),
	}
}

// next returns the next line including its '\n', if any. The slice is only
// valid until the following call. It returns io.EOF after the last line.
func (s *splitter) next() ([]byte, error) {
	for {
		data := s.buf[s.start:]
		if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
			s.start += idx + 1
			s.lineNo++
			return data[:idx+1], nil
		}

		if s.sourceEOF {
			if len(data) == 0 {
				return nil, io.EOF
			}
			// Last line without newline
			s.start = len(s.buf)
			s.lineNo++
			return data, nil
		}

		if limit := s.cfg.MaxLineLength; limit > 0 && len(data) > limit {
			return nil, fmt.Errorf("%w: line %d exceeds %d bytes", ErrLineTooLong, s.lineNo+1, limit)
		}
		if err := s.fill(); err != nil {
			return nil, err
		}
	}
}

func (s *splitter) fill() error {
	// Compact buffer
	if s.start > 0 {
		n := copy(s.buf, s.buf[s.start:])
		s.buf = s.buf[:n]
		s.start = 0
	}

	// Grow buffer if needed
	if cap(s.buf)-len(s.buf) < s.cfg.BufferSize {
		grown := make([]byte, len(s.buf), len(s.buf)+s.cfg.BufferSize)
		copy(grown, s.buf)
		s.buf = grown
	}

	n, err := s.source.Read(s.buf[len(s.buf):cap(s.buf)])
	s.buf = s.buf[:len(s.buf)+n]
	if err == io.EOF {
		s.sourceEOF = true
		return nil
	}
	return err
}
