// Package stream runs a line predicate over arbitrarily large inputs with
// bounded memory. Each line, without its terminator, is handed to the
// predicate as one subject.
//
// Example usage with a compiled pattern:
//
//	re := regvm.MustCompile("(de|cd)+")
//	r := stream.LineFilter(file, func(line []byte) (bool, error) {
//	    return re.SearchString(string(line))
//	})
//	io.Copy(os.Stdout, r)
package stream

import (
	"errors"
	"fmt"
)

// Predicate reports whether line should be kept. line excludes the trailing
// "\n" and any "\r" before it, and is only valid during the call. An error
// stops the stream.
type Predicate func(line []byte) (bool, error)

// ErrLineTooLong is returned when a line exceeds Config.MaxLineLength.
var ErrLineTooLong = errors.New("stream: line too long")

// Config configures line scanning.
type Config struct {
	// BufferSize is the chunk size for reading from the io.Reader.
	// Default: 64KB (65536).
	BufferSize int

	// MaxLineLength limits the bytes buffered for a single line. This
	// prevents unbounded memory growth on inputs without newlines.
	// Set to 0 for unlimited.
	MaxLineLength int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BufferSize:    64 * 1024, // 64KB
		MaxLineLength: 0,
	}
}

// Validate validates the Config and returns an error if invalid.
func (c Config) Validate() error {
	if c.BufferSize < 0 {
		return fmt.Errorf("stream: negative buffer size %d", c.BufferSize)
	}
	if c.MaxLineLength < 0 {
		return fmt.Errorf("stream: negative max line length %d", c.MaxLineLength)
	}
	return nil
}

// ApplyDefaults returns a Config with defaults applied for any zero values.
func (c Config) ApplyDefaults() Config {
	result := c
	if result.BufferSize <= 0 {
		result.BufferSize = DefaultConfig().BufferSize
	}
	return result
}
