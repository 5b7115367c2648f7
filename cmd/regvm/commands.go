package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/KromDaniel/regvm/pkg/regvm"
	"github.com/KromDaniel/regvm/stream"
)

func cmdMatch(a *app, args []string) int {
	fs := a.flags("match")
	mode := fs.String("mode", a.cfg.Match.Mode, "Match mode: anchored, full or search")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() != 2 {
		return a.usageError(fs, "match needs PATTERN and SUBJECT")
	}

	m, err := regvm.ParseMode(*mode)
	if err != nil {
		return a.fail(err)
	}
	re, err := a.compile(fs.Arg(0), m)
	if err != nil {
		return a.fail(err)
	}
	ok, err := re.Match(fs.Arg(1))
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintln(a.stdout, ok)
	if !ok {
		return exitNoMatch
	}
	return exitMatch
}

func cmdGrep(a *app, args []string) int {
	fs := a.flags("grep")
	mode := fs.String("mode", "search", "Match mode: anchored, full or search")
	lineNumbers := fs.Bool("n", false, "Prefix each line with its line number")
	countOnly := fs.Bool("c", false, "Print only the number of matching lines")
	var patterns arrayFlags
	fs.Var(&patterns, "e", "Pattern to match (repeatable; a line matching any pattern is printed)")
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	rest := fs.Args()
	if len(patterns) == 0 {
		if len(rest) == 0 {
			return a.usageError(fs, "grep needs a PATTERN")
		}
		patterns = append(patterns, rest[0])
		rest = rest[1:]
	}

	m, err := regvm.ParseMode(*mode)
	if err != nil {
		return a.fail(err)
	}
	res := make([]*regvm.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := a.compile(p, m)
		if err != nil {
			return a.fail(err)
		}
		res = append(res, re)
	}

	g := &grep{
		app:         a,
		pred:        anyMatch(res),
		lineNumbers: *lineNumbers,
		countOnly:   *countOnly,
		withName:    len(rest) > 1,
	}
	a.log.Debugf("grep: %d pattern(s) over %d file(s) in %s mode", len(res), len(rest), m)

	if len(rest) == 0 {
		if err := g.scan("", a.stdin); err != nil {
			return a.fail(err)
		}
	}
	for _, name := range rest {
		f, err := os.Open(name)
		if err != nil {
			return a.fail(err)
		}
		err = g.scan(name, f)
		f.Close()
		if err != nil {
			return a.fail(fmt.Errorf("%s: %w", name, err))
		}
	}

	if g.matched == 0 {
		return exitNoMatch
	}
	return exitMatch
}

// anyMatch accepts a line when one of res matches it in its own mode.
func anyMatch(res []*regvm.Regexp) stream.Predicate {
	return func(line []byte) (bool, error) {
		s := string(line)
		for _, re := range res {
			ok, err := re.Match(s)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	}
}

type grep struct {
	*app
	pred        stream.Predicate
	lineNumbers bool
	countOnly   bool
	withName    bool
	matched     int
}

func (g *grep) scan(name string, r io.Reader) error {
	counted := func(line []byte) (bool, error) {
		ok, err := g.pred(line)
		if ok {
			g.matched++
		}
		return ok, err
	}

	if g.countOnly {
		n, err := stream.CountMatches(r, g.pred)
		if err != nil {
			return err
		}
		g.matched += n
		if g.withName {
			fmt.Fprintf(g.stdout, "%s:%d\n", name, n)
		} else {
			fmt.Fprintf(g.stdout, "%d\n", n)
		}
		return nil
	}

	if !g.lineNumbers && !g.withName {
		_, err := io.Copy(g.stdout, stream.LineFilter(r, counted))
		return err
	}

	var werr error
	err := stream.Each(r, stream.DefaultConfig(), counted, func(no int, line []byte) bool {
		var prefix strings.Builder
		if g.withName {
			prefix.WriteString(name + ":")
		}
		if g.lineNumbers {
			fmt.Fprintf(&prefix, "%d:", no)
		}
		_, werr = fmt.Fprintf(g.stdout, "%s%s\n", prefix.String(), line)
		return werr == nil
	})
	if err != nil {
		return err
	}
	return werr
}

func cmdDump(a *app, args []string) int {
	fs := a.flags("dump")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() != 1 {
		return a.usageError(fs, "dump needs a PATTERN")
	}

	re, err := a.compile(fs.Arg(0), regvm.ModeAnchored)
	if err != nil {
		return a.fail(err)
	}

	info := re.Analysis()
	fmt.Fprintf(a.stdout, "pattern:  %s\n", re)
	fmt.Fprintf(a.stdout, "tree:     %s\n", info.Tree)
	fmt.Fprintf(a.stdout, "features: %s\n", strings.Join(info.FeatureLabels, ", "))
	if info.HasCatastrophicRisk {
		fmt.Fprintf(a.stdout, "warning:  nested quantifiers may backtrack exponentially\n")
	}
	if info.HasEmptyLoop {
		fmt.Fprintf(a.stdout, "warning:  a loop can repeat without consuming input\n")
	}
	fmt.Fprintf(a.stdout, "program:  %d instructions\n", info.Instructions)
	if _, err := re.Program().Disassemble(a.stdout); err != nil {
		return a.fail(err)
	}
	return exitMatch
}

func cmdAnalyze(a *app, args []string) int {
	fs := a.flags("analyze")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() != 1 {
		return a.usageError(fs, "analyze needs a PATTERN")
	}

	result, err := regvm.Analyze(fs.Arg(0))
	if err != nil {
		return a.fail(err)
	}
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return a.fail(err)
	}
	return exitMatch
}

func cmdGen(a *app, args []string) int {
	fs := a.flags("gen")
	name := fs.String("name", a.cfg.Generate.Name, "Generated type name")
	pkg := fs.String("pkg", a.cfg.Generate.Package, "Package name for generated code")
	output := fs.String("o", "", "Output file (- for stdout)")
	full := fs.Bool("full", false, "Require the whole input to match")
	noPool := fs.Bool("no-pool", a.cfg.Generate.NoPool, "Disable sync.Pool for the backtrack stack")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() != 1 {
		return a.usageError(fs, "gen needs a PATTERN")
	}
	if *output == "" {
		return a.usageError(fs, "-o is required")
	}

	opts := regvm.GenerateOptions{
		Pattern:         fs.Arg(0),
		Name:            *name,
		OutputFile:      *output,
		Package:         *pkg,
		NoPool:          *noPool,
		Full:            *full,
		MaxInstructions: a.cfg.Compile.MaxInstructions,
		Verbose:         a.cfg.Log.Verbosity > 1,
	}

	if *output == "-" {
		if err := regvm.RenderGo(opts, a.stdout); err != nil {
			return a.fail(err)
		}
		return exitMatch
	}
	if err := regvm.GenerateGo(opts); err != nil {
		return a.fail(err)
	}
	a.log.Noticef("wrote %s", *output)
	return exitMatch
}

func cmdImage(a *app, args []string) int {
	fs := a.flags("image")
	output := fs.String("o", "", "Output file")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() != 1 {
		return a.usageError(fs, "image needs a PATTERN")
	}
	if *output == "" {
		return a.usageError(fs, "-o is required")
	}

	re, err := a.compile(fs.Arg(0), regvm.ModeAnchored)
	if err != nil {
		return a.fail(err)
	}
	data, err := regvm.EncodeImage(re)
	if err != nil {
		return a.fail(err)
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		return a.fail(err)
	}
	a.log.Infof("wrote %d byte image to %s", len(data), *output)
	return exitMatch
}

func cmdRun(a *app, args []string) int {
	fs := a.flags("run")
	mode := fs.String("mode", a.cfg.Match.Mode, "Match mode: anchored, full or search")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() != 2 {
		return a.usageError(fs, "run needs IMAGE and SUBJECT")
	}

	m, err := regvm.ParseMode(*mode)
	if err != nil {
		return a.fail(err)
	}
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return a.fail(err)
	}
	re, err := regvm.DecodeImage(data)
	if err != nil {
		return a.fail(err)
	}

	ok, err := re.WithMode(m).Match(fs.Arg(1))
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.stdout, ok)
	if !ok {
		return exitNoMatch
	}
	return exitMatch
}
