package regvm

import (
	"bytes"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateGo(t *testing.T) {
	out := filepath.Join(t.TempDir(), "decd.go")
	err := GenerateGo(GenerateOptions{
		Pattern:    "(de|cd)+",
		Name:       "DeCd",
		OutputFile: out,
		Package:    "matchers",
	})
	if err != nil {
		t.Fatalf("GenerateGo() error: %v", err)
	}

	src, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	f, err := parser.ParseFile(token.NewFileSet(), out, src, parser.ParseComments)
	if err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, src)
	}
	if f.Name.Name != "matchers" {
		t.Errorf("package = %q, want matchers", f.Name.Name)
	}

	for _, want := range []string{
		"type DeCd struct{}",
		"var CompiledDeCd = DeCd{}",
		"func (DeCd) MatchString(input string) bool",
		"deCdStackPool",
	} {
		if !bytes.Contains(src, []byte(want)) {
			t.Errorf("generated code is missing %q", want)
		}
	}
}

func TestRenderGo(t *testing.T) {
	var buf bytes.Buffer
	err := RenderGo(GenerateOptions{
		Pattern: "abc",
		Name:    "Abc",
		Package: "gen",
		NoPool:  true,
		Full:    true,
	}, &buf)
	if err != nil {
		t.Fatalf("RenderGo() error: %v", err)
	}
	if _, err := parser.ParseFile(token.NewFileSet(), "abc.go", buf.Bytes(), 0); err != nil {
		t.Fatalf("generated code does not parse: %v", err)
	}
	if strings.Contains(buf.String(), "sync.Pool") {
		t.Error("pool should not be emitted with NoPool")
	}
}

func TestGenerateOptionsValidate(t *testing.T) {
	base := GenerateOptions{Pattern: "a", Name: "A", Package: "p", OutputFile: "a.go"}

	tests := []struct {
		name    string
		mutate  func(*GenerateOptions)
		wantErr string
	}{
		{"empty name", func(o *GenerateOptions) { o.Name = "" }, "name cannot be empty"},
		{"bad name", func(o *GenerateOptions) { o.Name = "1x" }, "not a valid Go identifier"},
		{"empty package", func(o *GenerateOptions) { o.Package = "" }, "package cannot be empty"},
		{"bad package", func(o *GenerateOptions) { o.Package = "my-pkg" }, "not a valid Go identifier"},
		{"negative limit", func(o *GenerateOptions) { o.MaxInstructions = -4 }, "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			tt.mutate(&opts)
			err := opts.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}

	if err := base.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestGenerateGoErrors(t *testing.T) {
	err := GenerateGo(GenerateOptions{Pattern: "a", Name: "A", Package: "p"})
	if err == nil || !strings.Contains(err.Error(), "output file") {
		t.Errorf("GenerateGo() without output = %v", err)
	}

	err = GenerateGo(GenerateOptions{
		Pattern:    "a.",
		Name:       "A",
		Package:    "p",
		OutputFile: filepath.Join(t.TempDir(), "a.go"),
	})
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("GenerateGo() with unsupported pattern = %v", err)
	}
}
