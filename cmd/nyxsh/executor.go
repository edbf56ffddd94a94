// This file implements the executor: the final pipeline stage, which
// walks an expanded syntax tree and actually runs it.
package main

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"syscall"

	"nyxsh/pkg/parser"
)

// Execute runs an expanded, heredoc-collected syntax tree and returns its
// exit status. AND and OR short-circuit on the left operand's status;
// PIPE flattens to a command list and runs it as one pipeline; CMD
// dispatches to a builtin or an external process.
func Execute(n *parser.Node, sh *Shell) int {
	switch n.Kind {
	case parser.NodeAnd:
		status := Execute(n.Left, sh)
		if status != 0 {
			return status
		}
		return Execute(n.Right, sh)

	case parser.NodeOr:
		status := Execute(n.Left, sh)
		if status == 0 {
			return status
		}
		return Execute(n.Right, sh)

	case parser.NodePipe:
		return runPipeline(parser.Flatten(n), sh)

	case parser.NodeCmd:
		return runSingle(n.Cmd, sh)

	default:
		return 0
	}
}

// runSingle executes one CMD node outside of any pipeline: a command
// whose Words all elided to nothing still has its redirections applied —
// ">file" with no command creates or truncates the file — a recognized
// builtin runs in-process against the shell's own stdio, and everything
// else forks an external process.
func runSingle(cmd *parser.Command, sh *Shell) int {
	if len(cmd.Argv) == 0 {
		_, _, _, opened, status, err := applyRedirs(cmd.Redirs, nil, io.Discard, io.Discard)
		closeAll(opened)
		closeHeredocs(cmd.Redirs)
		if err != nil {
			diagf("%v", err)
		}
		return status
	}

	if fn := GetBuiltin(cmd.Argv[0]); fn != nil {
		return runBuiltinStandalone(fn, cmd, sh)
	}

	return runExternal(cmd, sh, os.Stdin, sh.Stdout, sh.Stderr)
}

// runBuiltinStandalone runs a builtin in the shell's own process, honoring
// any redirections by substituting the requested files for the duration
// of the call.
func runBuiltinStandalone(fn BuiltinFunc, cmd *parser.Command, sh *Shell) int {
	stdin, stdout, stderr, opened, status, err := applyRedirs(cmd.Redirs, os.Stdin, sh.Stdout, sh.Stderr)
	defer closeAll(opened)
	defer closeHeredocs(cmd.Redirs)
	if err != nil {
		diagf("%v", err)
		return status
	}
	return fn(sh, cmd.Argv, stdin, stdout, stderr)
}

// runExternal execs an external command, mapping its outcome to the
// conventional exit statuses: 127 when the program cannot be found (not on
// PATH, or an explicit path that names no file), 126 when it is found but
// cannot be started (such as an explicit path to a file that is not
// executable; a PATH search skips non-executable files, so a name present
// on PATH only as such a file reports 127), the program's own status on a
// normal exit, and 128+signal when it is killed by a signal.
func runExternal(cmd *parser.Command, sh *Shell, stdin io.Reader, stdout, stderr io.Writer) int {
	path, lookErr := exec.LookPath(cmd.Argv[0])
	if lookErr != nil {
		closeHeredocs(cmd.Redirs)
		if errors.Is(lookErr, exec.ErrNotFound) || errors.Is(lookErr, fs.ErrNotExist) {
			diagf("%s: command not found", cmd.Argv[0])
			return 127
		}
		diagf("%s: %v", cmd.Argv[0], lookErr)
		return 126
	}

	rstdin, rstdout, rstderr, opened, status, err := applyRedirs(cmd.Redirs, stdin, stdout, stderr)
	defer closeAll(opened)
	defer closeHeredocs(cmd.Redirs)
	if err != nil {
		diagf("%v", err)
		return status
	}

	c := exec.Command(path, cmd.Argv[1:]...)
	c.Env = sh.Env.Environ()
	c.Stdin = rstdin
	c.Stdout = rstdout
	c.Stderr = rstderr

	startErr := sh.sigquitAroundExec(c.Start)
	if startErr != nil {
		diagf("%s: %v", cmd.Argv[0], startErr)
		return 126
	}

	return exitStatus(c.Wait())
}

// exitStatus converts the error from exec.Cmd.Wait into a POSIX-style
// status: the process's own exit code, 128+signal if it was killed by a
// signal, or 1 for any other failure to run.
func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return 1
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return exitErr.ExitCode()
}
