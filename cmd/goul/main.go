// Command goul is the goul interpreter CLI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"fortio.org/log"
	"golang.org/x/term"

	"nickandperla.net/goul/internal/config"
	"nickandperla.net/goul/internal/store"
	"nickandperla.net/goul/pkg/goul"
)

// Exit codes.
const (
	exitOK     = 0
	exitScript = 1
	exitUsage  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	evalStr  string
	file     string
	cfgPath  string
	runName  string
	saveName string
	rmName   string
	list     bool
	check    bool
	input    string
	verbose  bool
	repl     bool
	cfg      config.Config
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if opts.verbose {
		opts.cfg.LogLevel = "verbose"
	}
	if err := opts.cfg.ApplyLogLevel(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	// Store commands
	switch {
	case opts.list:
		return withStore(opts.cfg.DB, stderr, func(st store.Store) int { return listScripts(st, stdout) })
	case opts.rmName != "":
		return withStore(opts.cfg.DB, stderr, func(st store.Store) int {
			if err := st.Delete(opts.rmName); err != nil {
				log.Errf("delete %s: %v", opts.rmName, err)
				return exitScript
			}
			return exitOK
		})
	case opts.saveName != "":
		src, ok := readSource(opts, stdin, stderr)
		if !ok {
			return exitUsage
		}
		return withStore(opts.cfg.DB, stderr, func(st store.Store) int {
			if err := st.Put(opts.saveName, src); err != nil {
				log.Errf("save %s: %v", opts.saveName, err)
				return exitScript
			}
			log.Infof("saved %s (%d bytes)", opts.saveName, len(src))
			return exitOK
		})
	}

	runtime := newRuntime(opts.cfg, opts.input, "")

	if opts.runName != "" {
		return withStore(opts.cfg.DB, stderr, func(st store.Store) int {
			sc, err := st.Get(opts.runName)
			if err != nil {
				log.Errf("load %s: %v", opts.runName, err)
				return exitScript
			}
			if sc == nil {
				fmt.Fprintf(stderr, "Error: no stored script named %q\n", opts.runName)
				return exitScript
			}
			return execute(runtime, sc.Content, stdout)
		})
	}

	if opts.repl || (opts.evalStr == "" && opts.file == "" && stdinIsTerminal(stdin)) {
		if opts.check {
			fmt.Fprintln(stderr, "Error: -check needs a script (-e, -f or stdin)")
			return exitUsage
		}
		return runREPL(opts.cfg, opts.input, stdin, stdout)
	}

	src, ok := readSource(opts, stdin, stderr)
	if !ok {
		return exitUsage
	}
	if opts.check {
		return checkSource(src, stdout)
	}
	return execute(runtime, src, stdout)
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("goul", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.evalStr, "e", "", "Run goul source string")
	fs.StringVar(&opts.file, "f", "", "Run goul file")
	fs.StringVar(&opts.cfgPath, "config", "", "Config file (default $HOME/"+config.FileName+")")
	fs.StringVar(&opts.runName, "run", "", "Run a stored script")
	fs.StringVar(&opts.saveName, "save", "", "Store the script given by -e, -f or stdin under NAME")
	fs.StringVar(&opts.rmName, "rm", "", "Delete a stored script")
	fs.BoolVar(&opts.list, "ls", false, "List stored scripts")
	fs.BoolVar(&opts.check, "check", false, "Report problems in the script without running it")
	fs.StringVar(&opts.input, "input", "", "Text returned by input()")
	fs.BoolVar(&opts.verbose, "v", false, "Trace evaluation")
	fs.BoolVar(&opts.repl, "repl", false, "Start the REPL even when stdin is not a terminal")
	dbPath := fs.String("db", "", "SQLite script store path")
	maxDepth := fs.Int("max-depth", 0, "Maximum nested function calls")
	noStdlib := fs.Bool("no-stdlib", false, "Disable standard library prelude")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.file == "" && fs.NArg() > 0 {
		opts.file = fs.Arg(0)
	}

	cfg, err := config.Load(opts.cfgPath)
	if err != nil {
		return nil, err
	}

	// Flags override the config file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			cfg.DB = *dbPath
		case "max-depth":
			cfg.MaxCallDepth = *maxDepth
		case "no-stdlib":
			cfg.NoStdlib = *noStdlib
		}
	})
	opts.cfg = cfg
	return opts, nil
}

func newRuntime(cfg config.Config, input, prelude string) *goul.Runtime {
	var opts []goul.Option
	if cfg.MaxCallDepth > 0 {
		opts = append(opts, goul.WithMaxCallDepth(cfg.MaxCallDepth))
	}
	if input != "" {
		opts = append(opts, goul.WithInputPrompt(input))
	}
	switch {
	case cfg.NoStdlib && prelude == "":
		opts = append(opts, goul.WithNoStdlib())
	case cfg.NoStdlib:
		opts = append(opts, goul.WithPrelude(prelude))
	case prelude != "":
		opts = append(opts, goul.WithPrelude(goul.DefaultPrelude+"\n"+prelude))
	}
	return goul.New(opts...)
}

// execute runs src and prints its output. A failing script prints the
// error line like any other output and exits non-zero.
func execute(runtime *goul.Runtime, src string, stdout io.Writer) int {
	lines, err := runtime.Exec(src)
	for _, line := range lines {
		fmt.Fprintln(stdout, line)
	}
	if err != nil {
		fmt.Fprintln(stdout, goul.FormatError(err))
		return exitScript
	}
	return exitOK
}

func readSource(opts *options, stdin io.Reader, stderr io.Writer) (string, bool) {
	switch {
	case opts.evalStr != "":
		return opts.evalStr, true
	case opts.file != "":
		data, err := os.ReadFile(opts.file)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading file: %v\n", err)
			return "", false
		}
		return string(data), true
	case !stdinIsTerminal(stdin):
		data, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading stdin: %v\n", err)
			return "", false
		}
		return string(data), true
	}
	fmt.Fprintln(stderr, "Error: no script given (use -e, -f or pipe one on stdin)")
	return "", false
}

func checkSource(src string, stdout io.Writer) int {
	code := exitOK
	for _, d := range goul.Check(src) {
		fmt.Fprintln(stdout, d)
		if d.Severity == goul.SeverityError {
			code = exitScript
		}
	}
	return code
}

func withStore(path string, stderr io.Writer, fn func(store.Store) int) int {
	st, err := store.NewSQLite(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening store %s: %v\n", path, err)
		return exitScript
	}
	defer st.Close()
	return fn(st)
}

func listScripts(st store.Store, stdout io.Writer) int {
	scripts, err := st.List()
	if err != nil {
		log.Errf("list scripts: %v", err)
		return exitScript
	}
	for _, sc := range scripts {
		fmt.Fprintf(stdout, "%-24s %6d  %s\n", sc.Name, sc.Size(), sc.Modified.Local().Format(time.DateTime))
	}
	return exitOK
}

func stdinIsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
