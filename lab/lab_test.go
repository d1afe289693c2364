package lab

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/srl-labs/bgplab/exec"
	"github.com/srl-labs/bgplab/runtime"
	"github.com/srl-labs/bgplab/types"
)

// sleepMarker is recorded into the command journal whenever the sequencer
// pauses, so tests can assert phase/wait ordering.
const sleepMarker = "<sleep>"

type journalEntry struct {
	node string
	cmd  string
}

// fakeRuntime records every exec in order and lets tests fail selected
// commands by substring match.
type fakeRuntime struct {
	journal []journalEntry

	// rcFor returns the exit code for a command; keys are substrings of
	// the command string, first match wins.
	rcFor map[string]int
	// errFor simulates a runtime transport error for matching commands.
	errFor map[string]error
	// missing containers report a non-running state.
	missing map[string]bool
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		rcFor:   map[string]int{},
		errFor:  map[string]error{},
		missing: map[string]bool{},
	}
}

func (*fakeRuntime) GetName() string { return "fake" }

func (f *fakeRuntime) GetContainer(_ context.Context, name string) (*runtime.Container, error) {
	state := "running"
	if f.missing[name] {
		state = "exited"
	}
	return &runtime.Container{Name: name, ID: "id-" + name, State: state}, nil
}

func (f *fakeRuntime) Exec(_ context.Context, name string, cmd *exec.ExecCmd) (*exec.ExecResult, error) {
	cmdStr := cmd.GetCmdString()
	f.journal = append(f.journal, journalEntry{node: name, cmd: cmdStr})

	for sub, err := range f.errFor {
		if strings.Contains(cmdStr, sub) {
			return nil, err
		}
	}

	res := exec.NewExecResult(cmd)
	for sub, rc := range f.rcFor {
		if strings.Contains(cmdStr, sub) {
			res.SetReturnCode(rc)
			res.SetStdErr([]byte("simulated failure"))
			break
		}
	}

	return res, nil
}

// journalIndex returns the position of the first journal entry whose
// command contains sub, or -1.
func (f *fakeRuntime) journalIndex(sub string) int {
	for i, e := range f.journal {
		if strings.Contains(e.cmd, sub) {
			return i
		}
	}
	return -1
}

// journalLastIndex returns the position of the last journal entry whose
// command contains sub, or -1.
func (f *fakeRuntime) journalLastIndex(sub string) int {
	idx := -1
	for i, e := range f.journal {
		if strings.Contains(e.cmd, sub) {
			idx = i
		}
	}
	return idx
}

func (f *fakeRuntime) journalCount(sub string) int {
	n := 0
	for _, e := range f.journal {
		if strings.Contains(e.cmd, sub) {
			n++
		}
	}
	return n
}

// newTestLab builds a lab against the fake runtime with millisecond waits
// and a sleep that records a marker instead of blocking.
func newTestLab(t *testing.T, rt *fakeRuntime) *Lab {
	t.Helper()

	l, err := NewLab(
		WithRuntime(rt),
		WithTopology(types.DefaultTopology()),
		WithWaits(Waits{
			LinkSettle:   time.Millisecond,
			Stabilize:    time.Millisecond,
			DaemonSettle: time.Millisecond,
			Converge:     time.Millisecond,
		}),
	)
	if err != nil {
		t.Fatalf("NewLab() failed: %v", err)
	}

	l.sleep = func(time.Duration) {
		rt.journal = append(rt.journal, journalEntry{cmd: sleepMarker})
	}

	return l
}

func TestNewLabRequiresRuntime(t *testing.T) {
	if _, err := NewLab(); err == nil {
		t.Fatal("NewLab() without runtime should fail")
	}
}

func TestCheckContainersRejectsStopped(t *testing.T) {
	rt := newFakeRuntime()
	rt.missing["switch2"] = true

	l := newTestLab(t, rt)

	err := l.CheckContainers(context.Background())
	if err == nil {
		t.Fatal("CheckContainers() should fail for a stopped container")
	}
	if !strings.Contains(err.Error(), "switch2") {
		t.Fatalf("error should name the stopped container, got: %v", err)
	}
}
