// This file implements the heredoc collector: the pipeline stage between
// expansion and execution that reads every here-document body from the
// shell's own input before any command in the line is allowed to fork.
package main

import (
	"os"
	"strings"

	"nyxsh/pkg/parser"
)

// collectHeredocs walks the tree and fills in every Heredoc redirection's
// Body and HeredocFile, in the order their commands appear left to
// right. It must run after Expand and before Execute.
func (s *Shell) collectHeredocs(n *parser.Node) error {
	switch n.Kind {
	case parser.NodeAnd, parser.NodeOr, parser.NodePipe:
		if err := s.collectHeredocs(n.Left); err != nil {
			return err
		}
		return s.collectHeredocs(n.Right)
	case parser.NodeCmd:
		return s.collectCommandHeredocs(n.Cmd)
	}
	return nil
}

func (s *Shell) collectCommandHeredocs(cmd *parser.Command) error {
	for i := range cmd.Redirs {
		r := &cmd.Redirs[i]
		if r.Kind != parser.RedirKindHeredoc {
			continue
		}

		body, err := s.readHeredocBody(r.Delim)
		if err != nil {
			return err
		}
		if !r.Quoted {
			body = parser.ExpandLiteral(body, s.Env, s.LastStatus)
		}
		r.Body = body

		rf, wf, err := os.Pipe()
		if err != nil {
			return err
		}
		if _, werr := wf.WriteString(body); werr != nil {
			wf.Close()
			rf.Close()
			return werr
		}
		wf.Close()
		r.HeredocFile = rf
	}
	return nil
}

// readHeredocBody reads lines until one equals delim exactly (compared
// after stripping its trailing newline), returning every prior line with
// its newline intact. Input ending before the delimiter appears ends the
// body with whatever was read rather than erroring, the same tolerance
// an interactive shell gives a truncated here-doc at end of input.
func (s *Shell) readHeredocBody(delim string) (string, error) {
	var sb strings.Builder
	for {
		line, err := s.nextInputLine()
		if err == errInterrupted {
			return "", errInterrupted
		}
		if err != nil && line == "" {
			return sb.String(), nil
		}
		if strings.TrimRight(line, "\n") == delim {
			return sb.String(), nil
		}
		sb.WriteString(line)
		if !strings.HasSuffix(line, "\n") {
			sb.WriteByte('\n')
		}
		if err != nil {
			return sb.String(), nil
		}
	}
}
