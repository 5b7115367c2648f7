package regvm

import (
	"fmt"

	"github.com/KromDaniel/regvm/internal/image"
)

// EncodeImage serialises the compiled program and its pattern.
func EncodeImage(re *Regexp) ([]byte, error) {
	return image.Encode(re.pattern, re.prog)
}

// DecodeImage loads a program image written by EncodeImage. The program is
// validated first, so images with out-of-range addresses or jump cycles are
// rejected. The returned Regexp runs in ModeAnchored and has no syntax tree.
func DecodeImage(data []byte) (*Regexp, error) {
	img, err := image.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load program image: %w", err)
	}
	return &Regexp{
		pattern: img.Pattern,
		prog:    img.Program,
	}, nil
}

// WithMode returns a copy of re that uses mode for Match.
func (re *Regexp) WithMode(mode Mode) *Regexp {
	c := *re
	c.mode = mode
	return &c
}
