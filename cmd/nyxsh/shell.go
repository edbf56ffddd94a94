// Package main implements nyxsh, an interactive Unix shell core: lexer,
// parser, expander, heredoc collector, and executor wired into a REPL.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"nyxsh/pkg/parser"
	"nyxsh/pkg/shellenv"
)

// Shell holds everything a running nyxsh needs between command lines: its
// variable bindings, the last exit status for $?, and the stdio a
// non-interactive invocation (-c, a script, a pipe) may have redirected
// away from the controlling terminal.
type Shell struct {
	Env         *shellenv.Environment
	Stdin       *bufio.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	Prompt      string
	Interactive bool
	LastStatus  int

	sigCh  chan os.Signal
	lineCh chan lineResult
}

// lineResult is one line read from Stdin by the background reader
// goroutine the interactive loop uses so that a SIGINT during readLine
// never races a second read against the same bufio.Reader.
type lineResult struct {
	line string
	err  error
}

// NewShell builds a Shell reading from in and writing to out/errOut.
func NewShell(env *shellenv.Environment, in io.Reader, out, errOut io.Writer) *Shell {
	return &Shell{
		Env:    env,
		Stdin:  bufio.NewReader(in),
		Stdout: out,
		Stderr: errOut,
		Prompt: "$ ",
	}
}

// stdinIsTerminal reports whether os.Stdin is attached to a tty, the
// condition under which nyxsh runs interactively absent -c or a script
// argument.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// RunInteractive drives the read-prompt-eval loop until EOF, printing a
// prompt and the last command's status is tracked across iterations for
// $? but never printed unless the user echoes it.
func (s *Shell) RunInteractive() {
	s.installSigintHandler()
	defer s.stopSigintHandler()

	for {
		fmt.Fprint(s.Stdout, s.Prompt)

		line, err := s.readLine()
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(s.Stdout)
				return
			}
			if err == errInterrupted {
				fmt.Fprintln(s.Stdout)
				s.LastStatus = 130
				continue
			}
			diagf("%v", err)
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.LastStatus = s.execute(line)
	}
}

// RunScript executes every non-blank, non-comment line from Stdin in
// order, stopping at EOF. Used for script-file and piped-stdin
// invocations, where there is no prompt and no interrupt handling beyond
// the process default.
func (s *Shell) RunScript() int {
	for {
		line, err := s.Stdin.ReadString('\n')
		line = strings.TrimRight(line, "\n")
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			s.LastStatus = s.execute(line)
		}
		if err != nil {
			break
		}
	}
	return s.LastStatus
}

// RunCommand executes a single command string (-c) and returns its exit
// status. A blank or whitespace-only string runs nothing and leaves the
// status unchanged.
func (s *Shell) RunCommand(cmd string) int {
	if strings.TrimSpace(cmd) == "" {
		return s.LastStatus
	}
	s.LastStatus = s.execute(cmd)
	return s.LastStatus
}

// nextInputLine reads the next line of shell input, whether that's the
// interactive loop's background reader (so a heredoc body read shares the
// same SIGINT handling as the command line that introduced it) or a
// direct read in script/command-string mode, where there is no
// background reader to share.
func (s *Shell) nextInputLine() (string, error) {
	if s.lineCh != nil {
		return s.readLine()
	}
	return s.Stdin.ReadString('\n')
}

// execute runs the lexer, parser, expander, heredoc collector, and
// executor over one command line, reporting a syntax or quoting error as
// a single diagnostic and status 2.
func (s *Shell) execute(line string) int {
	node, err := parser.Parse(line)
	if err != nil {
		diagf("%v", err)
		return 2
	}

	// Every heredoc pipe in the tree is closed once the line is done,
	// including those of commands a short-circuit skipped and those
	// collected before an interrupted heredoc.
	var closeTree func(n *parser.Node)
	closeTree = func(n *parser.Node) {
		if n.Kind == parser.NodeCmd {
			closeHeredocs(n.Cmd.Redirs)
			return
		}
		closeTree(n.Left)
		closeTree(n.Right)
	}
	defer closeTree(node)

	parser.Expand(node, s.Env, s.LastStatus)

	if err := s.collectHeredocs(node); err != nil {
		if err == errInterrupted {
			return 130
		}
		diagf("%v", err)
		return 1
	}

	return Execute(node, s)
}
