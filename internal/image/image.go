// Package image serialises compiled programs to CBOR so they can be stored
// and run later without recompiling the pattern.
package image

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/KromDaniel/regvm/internal/vm"
)

// Version is the current image format version.
const Version = 1

// ErrVersion is returned when decoding an image with an unknown version.
var ErrVersion = errors.New("unsupported image version")

// Image is a decoded program image.
type Image struct {
	Version uint
	Pattern string
	Program *vm.Program
}

// wireImage is the CBOR layout. Integer keys keep images small.
type wireImage struct {
	Version uint       `cbor:"1,keyasint"`
	Pattern string     `cbor:"2,keyasint"`
	Inst    []wireInst `cbor:"3,keyasint"`
}

// wireInst is encoded as a CBOR array [op, rune, x, y].
type wireInst struct {
	_    struct{} `cbor:",toarray"`
	Op   uint8
	Rune int32
	X    int64
	Y    int64
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("image: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Encode serialises p together with the pattern it was compiled from. The
// program must be valid.
func Encode(pattern string, p *vm.Program) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("image: nil program")
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("image: %w", err)
	}

	w := wireImage{
		Version: Version,
		Pattern: pattern,
		Inst:    make([]wireInst, len(p.Inst)),
	}
	for i, inst := range p.Inst {
		w.Inst[i] = wireInst{
			Op:   uint8(inst.Op),
			Rune: inst.Rune,
			X:    int64(inst.X),
			Y:    int64(inst.Y),
		}
	}
	return cborEncMode.Marshal(w)
}

// Decode parses an image and validates the program it carries, so a damaged
// image is rejected before it reaches the evaluator.
func Decode(data []byte) (*Image, error) {
	var w wireImage
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("image: unmarshal: %w", err)
	}
	if w.Version != Version {
		return nil, fmt.Errorf("image: %w: %d", ErrVersion, w.Version)
	}

	p := &vm.Program{Inst: make([]vm.Inst, len(w.Inst))}
	for i, wi := range w.Inst {
		p.Inst[i] = vm.Inst{
			Op:   vm.Op(wi.Op),
			Rune: wi.Rune,
			X:    int(wi.X),
			Y:    int(wi.Y),
		}
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("image: %w", err)
	}

	return &Image{Version: w.Version, Pattern: w.Pattern, Program: p}, nil
}
