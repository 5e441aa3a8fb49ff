package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nickandperla.net/goul/internal/config"
	"nickandperla.net/goul/internal/store"
)

// scriptedPrompter replays fixed input lines.
type scriptedPrompter struct {
	lines []string
}

func (p *scriptedPrompter) Prompt(string) (string, error) {
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func TestReadChunk(t *testing.T) {
	p := &scriptedPrompter{lines: []string{"", "x = 1", "echo x", "", ":quit"}}

	chunk, ok := readChunk(p)
	if !ok || chunk != "x = 1\necho x" {
		t.Fatalf("expected first chunk, got %q (%v)", chunk, ok)
	}
	chunk, ok = readChunk(p)
	if !ok || chunk != ":quit" {
		t.Fatalf("expected command, got %q (%v)", chunk, ok)
	}
	if _, ok = readChunk(p); ok {
		t.Error("expected EOF")
	}
}

func TestReadChunkEOFFlushes(t *testing.T) {
	p := &scriptedPrompter{lines: []string{"echo 1"}}
	chunk, ok := readChunk(p)
	if !ok || chunk != "echo 1" {
		t.Errorf("expected pending chunk at EOF, got %q (%v)", chunk, ok)
	}
}

func TestSessionKeepsFunctions(t *testing.T) {
	var out bytes.Buffer
	s := newSession(config.Default(), "", nil, &out)

	s.eval("fn double(n) {\n    return n * 2\n}\necho \"defined\"")
	s.eval("echo double(4)")
	if out.String() != "defined\n8\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestSessionDropsFailedChunk(t *testing.T) {
	var out bytes.Buffer
	s := newSession(config.Default(), "", nil, &out)

	s.eval("fn f() {\n    return 1\n}\necho nope")
	s.eval("echo f()")
	want := "Error: cannot evaluate expression: nope\nError: function 'f' is not defined\n"
	if out.String() != want {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestSessionCommands(t *testing.T) {
	var out bytes.Buffer
	st := store.NewMemory()
	s := newSession(config.Default(), "", st, &out)

	s.command(":save nothing")
	s.eval(`echo "saved text"`)
	s.command(":save greeting")
	s.command(":run greeting")
	s.command(":run missing")
	s.command(":frob")
	if s.command(":quit") {
		t.Error(":quit should stop the loop")
	}

	want := strings.Join([]string{
		"nothing to save",
		"saved text",
		"saved greeting",
		"saved text",
		`no stored script named "missing"`,
		"unknown command :frob. Type :quit to exit.",
	}, "\n") + "\n"
	if out.String() != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", out.String(), want)
	}

	sc, _ := st.Get("greeting")
	if sc == nil || sc.Content != `echo "saved text"` {
		t.Errorf("expected stored chunk, got %+v", sc)
	}
}

func TestSessionReset(t *testing.T) {
	var out bytes.Buffer
	s := newSession(config.Default(), "", nil, &out)
	s.eval("fn f() {\n    return 1\n}")
	s.command(":reset")
	s.eval("echo f()")
	if !strings.Contains(out.String(), "function 'f' is not defined") {
		t.Errorf("reset kept definitions: %q", out.String())
	}
}

func TestREPLOverPipe(t *testing.T) {
	stdin := "fn double(n) {\n    return n * 2\n}\n\necho double(21)\n\n:quit\necho \"after quit\"\n"
	code, out, _ := runCLI(t, stdin, "-repl")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "goul REPL") {
		t.Errorf("missing banner in %q", out)
	}
	if !strings.Contains(out, "42\n") {
		t.Errorf("missing result in %q", out)
	}
	if strings.Contains(out, "after quit") {
		t.Errorf("input after :quit was run: %q", out)
	}
}

func TestREPLOpensStoreOnlyWhenNeeded(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dbPath := filepath.Join(home, "test.db")

	code, out, _ := runIn(t, home, "echo 1\n\n:quit\n", "-repl")
	if code != exitOK || !strings.Contains(out, "1\n") {
		t.Fatalf("code %d, output %q", code, out)
	}
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Errorf("store should not be created without a store command, stat: %v", err)
	}

	code, _, _ = runIn(t, home, "echo 1\n\n:save one\n:quit\n", "-repl")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("store should exist after :save: %v", err)
	}
}

func TestSessionOpensStoreLazily(t *testing.T) {
	var out bytes.Buffer
	opened := 0
	mem := store.NewMemory()
	s := newSession(config.Default(), "", nil, &out)
	s.open = func() (store.Store, error) {
		opened++
		return mem, nil
	}

	s.eval("echo 1")
	if opened != 0 {
		t.Fatalf("store opened by a plain chunk")
	}
	s.command(":save one")
	s.command(":ls")
	if opened != 1 {
		t.Errorf("expected exactly one open, got %d", opened)
	}
	if sc, _ := mem.Get("one"); sc == nil || sc.Content != "echo 1" {
		t.Errorf("expected saved chunk, got %+v", sc)
	}
}
