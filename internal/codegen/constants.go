// Package codegen provides naming helpers and constants for emitted Go code.
package codegen

import (
	"fmt"
	"go/token"
)

// Variable and label names used in generated code
const (
	InputName           = "input"
	InputLenName        = "l"
	OffsetName          = "offset"
	StackName           = "stack"
	NextInstructionName = "nextInstruction"
	StepSelectName      = "StepSelect"
	TryFallbackName     = "TryFallback"
)

// InstructionName returns the label name for an instruction.
func InstructionName(pc int) string {
	return fmt.Sprintf("Ins%d", pc)
}

// LowerFirst converts the first character of a string to lowercase.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]|0x20) + s[1:]
}

// UpperFirst converts the first character of a string to uppercase.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]&^0x20) + s[1:]
}

// IsIdentifier reports whether name can be used as a Go identifier in
// generated code.
func IsIdentifier(name string) bool {
	return token.IsIdentifier(name)
}
