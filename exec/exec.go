// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package exec

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/shlex"
)

// ExecCmd represents a command to be executed inside a container.
type ExecCmd struct {
	Cmd []string // Cmd is a slice-based representation of a string command.
}

// NewExecCmdFromString creates ExecCmd for a string-based command.
func NewExecCmdFromString(cmd string) (*ExecCmd, error) {
	result := &ExecCmd{}
	if err := result.SetCmd(cmd); err != nil {
		return nil, err
	}
	return result, nil
}

// NewExecCmdFromSlice creates ExecCmd for a command represented as a slice of strings.
func NewExecCmdFromSlice(cmd []string) *ExecCmd {
	return &ExecCmd{
		Cmd: cmd,
	}
}

// SetCmd sets the command that is to be executed.
func (e *ExecCmd) SetCmd(cmd string) error {
	c, err := shlex.Split(cmd)
	if err != nil {
		return err
	}
	e.Cmd = c
	return nil
}

// GetCmd returns the command that is to be executed.
func (e *ExecCmd) GetCmd() []string {
	return e.Cmd
}

// GetCmdString returns the command as a single string.
func (e *ExecCmd) GetCmdString() string {
	return strings.Join(e.Cmd, " ")
}

// ExecResult represents a result of a command execution.
type ExecResult struct {
	Cmd        []string
	ReturnCode int
	Stdout     string
	Stderr     string
}

func NewExecResult(op *ExecCmd) *ExecResult {
	return &ExecResult{Cmd: op.GetCmd()}
}

func (e *ExecResult) String() string {
	var s strings.Builder

	s.WriteString(fmt.Sprintf("Cmd: %s\nReturnCode: %d", e.GetCmdString(), e.ReturnCode))

	if e.Stdout != "" {
		s.WriteString(fmt.Sprintf("\nStdout: %q", e.Stdout))
	}
	if e.Stderr != "" {
		s.WriteString(fmt.Sprintf("\nStderr: %q", e.Stderr))
	}

	return s.String()
}

// GetCmdString returns the initially parsed cmd as a string for e.g. log output purpose.
func (e *ExecResult) GetCmdString() string {
	return strings.Join(e.Cmd, " ")
}

func (e *ExecResult) GetReturnCode() int {
	return e.ReturnCode
}

func (e *ExecResult) SetReturnCode(rc int) {
	e.ReturnCode = rc
}

func (e *ExecResult) GetStdOutString() string {
	return e.Stdout
}

func (e *ExecResult) GetStdErrString() string {
	return e.Stderr
}

func (e *ExecResult) SetStdOut(data []byte) {
	e.Stdout = string(data)
}

func (e *ExecResult) SetStdErr(data []byte) {
	e.Stderr = string(data)
}

// execEntries is a map indexed by container names storing lists of ExecResult.
type execEntries map[string][]*ExecResult

// ExecCollection represents a datastore for exec commands execution results.
type ExecCollection struct {
	execEntries
	m sync.RWMutex
}

// NewExecCollection initializes the collection of exec command results.
func NewExecCollection() *ExecCollection {
	return &ExecCollection{
		execEntries: execEntries{},
		m:           sync.RWMutex{},
	}
}

func (ec *ExecCollection) Add(cName string, e *ExecResult) {
	ec.m.Lock()
	defer ec.m.Unlock()
	ec.execEntries[cName] = append(ec.execEntries[cName], e)
}

// Log writes to the log execution results stored in ExecCollection.
// If execution result contains error, the error log facility is used,
// otherwise it is logged as INFO.
func (ec *ExecCollection) Log() {
	ec.m.RLock()
	defer ec.m.RUnlock()
	for k, execResults := range ec.execEntries {
		for _, er := range execResults {
			switch {
			case er.GetReturnCode() != 0:
				log.Error(
					"Failed to execute command",
					"command", er.GetCmdString(),
					"node", k,
					"rc", er.GetReturnCode(),
					"stdout", er.GetStdOutString(),
					"stderr", er.GetStdErrString(),
				)
			default:
				log.Info(
					"Executed command",
					"node", k,
					"command", er.GetCmdString(),
					"stdout", er.GetStdOutString(),
				)
			}
		}
	}
}
