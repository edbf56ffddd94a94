// Redirection application, shared by standalone command execution and
// pipeline stages. A Redirection's Target has already been through the
// expander by the time it reaches here (see pkg/parser/expand.go), so
// Target.Raw() is the final filename.
package main

import (
	"io"
	"os"

	"nyxsh/pkg/parser"
)

// applyRedirs opens each non-heredoc target in order and returns the
// effective stdin/stdout/stderr for the command, along with every file it
// opened (for the caller to close once the command has finished). A
// Heredoc redirection contributes its already-collected HeredocFile as
// stdin instead of opening anything; when a command carries more than
// one, only the last wins, matching the heredoc collector's contract.
func applyRedirs(redirs []parser.Redirection, stdin io.Reader, stdout, stderr io.Writer) (io.Reader, io.Writer, io.Writer, []*os.File, int, error) {
	var opened []*os.File

	for _, r := range redirs {
		switch r.Kind {
		case parser.RedirKindIn:
			f, err := os.Open(r.Target.Raw())
			if err != nil {
				closeAll(opened)
				return nil, nil, nil, nil, 1, err
			}
			opened = append(opened, f)
			stdin = f

		case parser.RedirKindOut:
			f, err := os.OpenFile(r.Target.Raw(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
			if err != nil {
				closeAll(opened)
				return nil, nil, nil, nil, 1, err
			}
			opened = append(opened, f)
			stdout = f

		case parser.RedirKindAppend:
			f, err := os.OpenFile(r.Target.Raw(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				closeAll(opened)
				return nil, nil, nil, nil, 1, err
			}
			opened = append(opened, f)
			stdout = f

		case parser.RedirKindHeredoc:
			if r.HeredocFile != nil {
				stdin = r.HeredocFile
			}
		}
	}

	return stdin, stdout, stderr, opened, 0, nil
}

func closeAll(files []*os.File) {
	for _, f := range files {
		f.Close()
	}
}

// closeHeredocs closes every heredoc pipe a Command collected, whether or
// not it ended up as the command's stdin.
func closeHeredocs(redirs []parser.Redirection) {
	for _, r := range redirs {
		if r.Kind == parser.RedirKindHeredoc && r.HeredocFile != nil {
			r.HeredocFile.Close()
		}
	}
}
