package process

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Call is one recorded Script invocation.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// Line renders the call the way it was scripted.
func (c Call) Line() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

type scripted struct {
	res Result
	err error
}

// Script is an Execer for tests. Commands are stubbed by their full
// command line; anything unscripted fails the run loudly so a test
// cannot silently exercise a command it never meant to.
type Script struct {
	mu      sync.Mutex
	stubbed map[string]scripted
	calls   []Call
}

// NewScript creates an empty scripted Execer.
func NewScript() *Script {
	return &Script{stubbed: make(map[string]scripted)}
}

// Stub registers the result for one exact command line, for example
// "git status --porcelain".
func (s *Script) Stub(cmdline string, res Result) *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubbed[cmdline] = scripted{res: res}
	return s
}

// StubErr registers a command line that fails to run at all.
func (s *Script) StubErr(cmdline string, err error) *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubbed[cmdline] = scripted{err: err}
	return s
}

// Run returns the scripted result for the command line.
func (s *Script) Run(_ context.Context, dir, name string, args ...string) (Result, error) {
	call := Call{Dir: dir, Name: name, Args: args}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)

	sc, ok := s.stubbed[call.Line()]
	if !ok {
		return Result{}, fmt.Errorf("unscripted command: %q", call.Line())
	}
	return sc.res, sc.err
}

// Calls returns every invocation in order.
func (s *Script) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Lines returns the recorded command lines in order.
func (s *Script) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.Line())
	}
	return out
}
