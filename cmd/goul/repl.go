package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fortio.org/log"
	"github.com/peterh/liner"

	"nickandperla.net/goul/internal/config"
	"nickandperla.net/goul/internal/store"
)

const (
	promptMain = ">>> "
	promptCont = "... "
)

func printBanner(w io.Writer) {
	fmt.Fprintln(w, "goul REPL (Ctrl+D to exit)")
	fmt.Fprintln(w, "End a chunk with an empty line. Commands: :run NAME, :save NAME, :ls, :reset, :quit")
	fmt.Fprintln(w)
}

// prompter reads one line of input after showing prompt.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// basicPrompter handles non-TTY input.
type basicPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *basicPrompter) Prompt(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// session carries function definitions from one chunk to the next. Every
// chunk runs in a fresh interpreter whose prelude includes the source of
// earlier successful chunks, so their top-level lines never run twice.
type session struct {
	cfg     config.Config
	input   string
	library strings.Builder
	last    string
	st      store.Store
	open    func() (store.Store, error)
	out     io.Writer
}

func newSession(cfg config.Config, input string, st store.Store, out io.Writer) *session {
	return &session{cfg: cfg, input: input, st: st, out: out}
}

// scripts returns the script store, opening it on first use. It returns
// nil when there is no store.
func (s *session) scripts() store.Store {
	if s.st == nil && s.open != nil {
		st, err := s.open()
		s.open = nil
		if err != nil {
			log.Warnf("script store unavailable: %v", err)
			return nil
		}
		s.st = st
	}
	return s.st
}

// close releases the store if it was opened.
func (s *session) close() {
	if s.st != nil {
		s.st.Close()
	}
}

// eval runs one chunk and prints its output.
func (s *session) eval(chunk string) {
	runtime := newRuntime(s.cfg, s.input, s.library.String())
	if execute(runtime, chunk, s.out) != exitOK {
		return
	}
	s.library.WriteString(chunk)
	s.library.WriteString("\n")
	s.last = chunk
}

// command handles a ":" line. It returns false when the REPL should stop.
func (s *session) command(line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case ":quit", ":q":
		return false
	case ":reset":
		s.library.Reset()
		s.last = ""
	case ":run":
		if sc := s.load(arg); sc != nil {
			s.eval(sc.Content)
		}
	case ":save":
		s.save(arg)
	case ":ls":
		if st := s.scripts(); st != nil {
			listScripts(st, s.out)
		} else {
			fmt.Fprintln(s.out, "no script store")
		}
	default:
		fmt.Fprintf(s.out, "unknown command %s. Type :quit to exit.\n", cmd)
	}
	return true
}

func (s *session) load(name string) *store.Script {
	st := s.scripts()
	if st == nil || name == "" {
		fmt.Fprintln(s.out, "usage: :run NAME (needs a script store)")
		return nil
	}
	sc, err := st.Get(name)
	if err != nil {
		log.Errf("load %s: %v", name, err)
		return nil
	}
	if sc == nil {
		fmt.Fprintf(s.out, "no stored script named %q\n", name)
	}
	return sc
}

func (s *session) save(name string) {
	switch {
	case name == "":
		fmt.Fprintln(s.out, "usage: :save NAME (needs a script store)")
	case s.last == "":
		fmt.Fprintln(s.out, "nothing to save")
	case s.scripts() == nil:
		fmt.Fprintln(s.out, "usage: :save NAME (needs a script store)")
	default:
		if err := s.scripts().Put(name, s.last); err != nil {
			log.Errf("save %s: %v", name, err)
			return
		}
		fmt.Fprintf(s.out, "saved %s\n", name)
	}
}

// readChunk collects lines until an empty line. A ":" command on the first
// line is returned alone.
func readChunk(p prompter) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := p.Prompt(prompt)
		if err != nil {
			if b.Len() > 0 && errors.Is(err, io.EOF) {
				return b.String(), true
			}
			return "", false
		}
		if b.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, true
		}
		if strings.TrimSpace(line) == "" {
			if b.Len() == 0 {
				continue
			}
			return b.String(), true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
}

// loop drives the session until EOF or :quit.
func (s *session) loop(p prompter, onChunk func(string)) {
	for {
		chunk, ok := readChunk(p)
		if !ok {
			fmt.Fprintln(s.out)
			return
		}
		if onChunk != nil {
			onChunk(chunk)
		}
		if strings.HasPrefix(strings.TrimSpace(chunk), ":") {
			if !s.command(chunk) {
				return
			}
			continue
		}
		s.eval(chunk)
	}
}

func runREPL(cfg config.Config, input string, stdin io.Reader, stdout io.Writer) int {
	printBanner(stdout)

	s := newSession(cfg, input, nil, stdout)
	s.open = func() (store.Store, error) { return store.NewSQLite(cfg.DB) }
	defer s.close()

	if !stdinIsTerminal(stdin) {
		s.loop(&basicPrompter{in: bufio.NewReader(stdin), out: stdout}, nil)
		return exitOK
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if cfg.HistoryFile != "" {
		if f, err := os.Open(cfg.HistoryFile); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(cfg.HistoryFile); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			} else {
				log.Warnf("write history %s: %v", cfg.HistoryFile, err)
			}
		}()
	}

	s.loop(ln, func(chunk string) {
		ln.AppendHistory(strings.ReplaceAll(chunk, "\n", " "))
	})
	return exitOK
}
