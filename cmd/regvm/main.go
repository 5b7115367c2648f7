// regvm compiles regular expressions to bytecode and runs them on a
// backtracking virtual machine.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/KromDaniel/regvm/internal/config"
	"github.com/KromDaniel/regvm/pkg/regvm"
)

// Exit codes follow grep: 0 on match, 1 on no match, 2 on error.
const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

// arrayFlags collects a repeatable string flag.
type arrayFlags []string

func (a arrayFlags) String() string {
	return strings.Join(a, ", ")
}

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

var commands = map[string]func(a *app, args []string) int{
	"match":   cmdMatch,
	"grep":    cmdGrep,
	"dump":    cmdDump,
	"analyze": cmdAnalyze,
	"gen":     cmdGen,
	"image":   cmdImage,
	"run":     cmdRun,
}

// usages is separate from commands to avoid an initialization cycle.
var usages = map[string]string{
	"match":   "match [-mode M] PATTERN SUBJECT",
	"grep":    "grep [-mode M] [-n] [-c] [-e PATTERN]... [PATTERN] [FILE...]",
	"dump":    "dump PATTERN",
	"analyze": "analyze PATTERN",
	"gen":     "gen [-name N] [-pkg P] [-full] [-no-pool] -o FILE PATTERN",
	"image":   "image -o FILE PATTERN",
	"run":     "run [-mode M] IMAGE SUBJECT",
}

var commandOrder = []string{"match", "grep", "dump", "analyze", "gen", "image", "run"}

// app carries what every subcommand needs.
type app struct {
	cfg    *config.Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    commonlog.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("regvm", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", config.FileName, "TOML configuration file")
	verbosity := global.Int("v", -1, "Log verbosity, overrides the configuration file")
	global.Usage = func() {
		fmt.Fprintf(stderr, "Usage: regvm [options] COMMAND [args]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		global.PrintDefaults()
		fmt.Fprintf(stderr, "\nCommands:\n")
		for _, name := range commandOrder {
			fmt.Fprintf(stderr, "  regvm %s\n", usages[name])
		}
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  regvm match '(de|cd)+' decd\n")
		fmt.Fprintf(stderr, "  regvm grep -n 'ERROR|WARN' app.log\n")
		fmt.Fprintf(stderr, "  regvm gen -name Decd -pkg matchers -o decd.go '(de|cd)+'\n")
	}
	if err := global.Parse(args); err != nil {
		return exitError
	}

	cfg, err := config.LoadOptional(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if *verbosity >= 0 {
		cfg.Log.Verbosity = *verbosity
	}
	configureLogging(cfg.Log)

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return exitError
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n", rest[0])
		global.Usage()
		return exitError
	}

	a := &app{
		cfg:    cfg,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		log:    commonlog.GetLogger("regvm.cli"),
	}
	if cfg.Path != "" {
		a.log.Infof("loaded configuration from %s", cfg.Path)
	}
	return cmd(a, rest[1:])
}

func configureLogging(l config.Log) {
	if l.Path != "" {
		path := l.Path
		commonlog.Configure(l.Verbosity, &path)
		return
	}
	commonlog.Configure(l.Verbosity, nil)
}

// flags returns a FlagSet for a subcommand that reports errors to stderr.
func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: regvm %s\n", usages[name])
		fs.PrintDefaults()
	}
	return fs
}

// compile builds a Regexp with the configured limits.
func (a *app) compile(pattern string, mode regvm.Mode) (*regvm.Regexp, error) {
	return regvm.CompileWith(regvm.Options{
		Pattern:         pattern,
		Mode:            mode,
		MaxInstructions: a.cfg.Compile.MaxInstructions,
		Verbose:         a.cfg.Log.Verbosity > 1,
	})
}

func (a *app) fail(err error) int {
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	return exitError
}

func (a *app) usageError(fs *flag.FlagSet, format string, args ...any) int {
	fmt.Fprintf(a.stderr, "Error: "+format+"\n", args...)
	fs.Usage()
	return exitError
}
