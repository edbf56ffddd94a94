// This file implements PIPE-node execution: wiring a chain of commands
// together with real OS pipes and reaping them concurrently, one
// goroutine per stage, rather than serially waiting on each in turn.
package main

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"

	"golang.org/x/sync/errgroup"

	"nyxsh/pkg/parser"
)

// runPipeline connects len(nodes) commands with len(nodes)-1 pipes and
// runs them concurrently. The pipeline's exit status is the last
// command's, matching how AND/OR and $? are defined over the rest of the
// tree.
func runPipeline(nodes []*parser.Node, sh *Shell) int {
	n := len(nodes)
	if n == 1 {
		return runSingle(nodes[0].Cmd, sh)
	}

	readEnds := make([]*os.File, n-1)
	writeEnds := make([]*os.File, n-1)
	for i := 0; i < n-1; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			diagf("pipe: %v", err)
			for j := 0; j < i; j++ {
				readEnds[j].Close()
				writeEnds[j].Close()
			}
			return 1
		}
		readEnds[i], writeEnds[i] = r, w
	}

	statuses := make([]int, n)
	var g errgroup.Group

	for idx, node := range nodes {
		i, cmd := idx, node.Cmd

		var stdin io.Reader = os.Stdin
		var stdout io.Writer = sh.Stdout
		var pipeIn, pipeOut *os.File
		if i > 0 {
			pipeIn = readEnds[i-1]
			stdin = pipeIn
		}
		if i < n-1 {
			pipeOut = writeEnds[i]
			stdout = pipeOut
		}

		g.Go(func() error {
			statuses[i] = runPipelineStage(cmd, sh, stdin, stdout, pipeIn, pipeOut)
			return nil
		})
	}

	g.Wait()
	return statuses[n-1]
}

// runPipelineStage runs one command of a pipeline. pipeIn and pipeOut are
// this stage's own copies of the pipeline's internal pipe fds (nil at the
// chain's ends); they are closed as soon as this stage no longer needs
// them, whether or not an explicit redirection overrode them as the
// command's effective stdin/stdout, so that the neighboring stage sees
// EOF or a broken pipe promptly instead of waiting on a descriptor this
// stage forgot to release.
func runPipelineStage(cmd *parser.Command, sh *Shell, stdin io.Reader, stdout io.Writer, pipeIn, pipeOut *os.File) int {
	release := func() {
		if pipeIn != nil {
			pipeIn.Close()
		}
		if pipeOut != nil {
			pipeOut.Close()
		}
	}

	rstdin, rstdout, rstderr, opened, status, err := applyRedirs(cmd.Redirs, stdin, stdout, sh.Stderr)
	if err != nil {
		release()
		closeHeredocs(cmd.Redirs)
		diagf("%v", err)
		return status
	}

	if len(cmd.Argv) == 0 {
		release()
		closeAll(opened)
		closeHeredocs(cmd.Redirs)
		return 0
	}

	if fn := GetBuiltin(cmd.Argv[0]); fn != nil {
		result := fn(sh, cmd.Argv, rstdin, rstdout, rstderr)
		release()
		closeAll(opened)
		closeHeredocs(cmd.Redirs)
		return result
	}

	path, lookErr := exec.LookPath(cmd.Argv[0])
	if lookErr != nil {
		release()
		closeAll(opened)
		closeHeredocs(cmd.Redirs)
		if errors.Is(lookErr, exec.ErrNotFound) || errors.Is(lookErr, fs.ErrNotExist) {
			diagf("%s: command not found", cmd.Argv[0])
			return 127
		}
		diagf("%s: %v", cmd.Argv[0], lookErr)
		return 126
	}

	c := exec.Command(path, cmd.Argv[1:]...)
	c.Env = sh.Env.Environ()
	c.Stdin = rstdin
	c.Stdout = rstdout
	c.Stderr = rstderr

	startErr := sh.sigquitAroundExec(c.Start)
	// The child has its own copy of every fd it needs by now; drop ours
	// immediately rather than waiting for Wait to return, so a neighbor
	// blocked in Read sees EOF as soon as this process actually exits.
	release()
	closeAll(opened)
	closeHeredocs(cmd.Redirs)

	if startErr != nil {
		diagf("%s: %v", cmd.Argv[0], startErr)
		return 126
	}
	return exitStatus(c.Wait())
}
