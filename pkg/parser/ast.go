package parser

import "os"

// NodeKind identifies a syntax tree node's role. Pipe, And, and Or are
// binary; Cmd is a leaf.
type NodeKind int

const (
	NodeCmd NodeKind = iota
	NodePipe
	NodeAnd
	NodeOr
)

// Node is a syntax tree node. Only one of Cmd (for NodeCmd) or Left/Right
// (for the binary kinds) is populated.
type Node struct {
	Kind  NodeKind
	Left  *Node
	Right *Node
	Cmd   *Command
}

// RedirKind identifies the direction and source of a redirection.
type RedirKind int

const (
	RedirKindIn RedirKind = iota
	RedirKindOut
	RedirKindAppend
	RedirKindHeredoc
)

// Redirection is one (kind, target) pair attached to a Command, in the
// order it appeared on the command line.
type Redirection struct {
	Kind RedirKind

	// Target is the pre-expansion target word: a filename for
	// In/Out/Append, a delimiter for Heredoc.
	Target Token

	// Delim and Quoted are filled in once for Heredoc redirections: the
	// literal (quote-stripped, unexpanded) delimiter text and whether the
	// original delimiter word contained any quoted segment.
	Delim  string
	Quoted bool

	// Body is populated by the heredoc collector with the lines read for
	// this redirection (after any variable expansion), one body per
	// heredoc even when an earlier one in the same Command is never used
	// as stdin.
	Body string

	// HeredocFile is the read end of the pipe the heredoc collector wrote
	// Body into. It is owned by the Command and closed once the executor
	// is done with the command, whether or not it ended up as stdin.
	HeredocFile *os.File
}

// Command is a leaf node: a command name, its arguments, and its
// redirections, in source order.
type Command struct {
	// Words holds every WORD token of the command, pre-expansion. Words[0]
	// becomes the program name after expansion.
	Words []Token

	Redirs []Redirection

	// Argv is populated by the expander: the final, quote-stripped,
	// variable-expanded argument vector. Argv[0] is the program name.
	Argv []string
}

// Flatten walks a left-leaning spine of Pipe nodes and returns the ordered
// list of Command leaves it connects. A non-Pipe node yields a
// single-element slice.
func Flatten(n *Node) []*Node {
	if n.Kind != NodePipe {
		return []*Node{n}
	}
	return append(Flatten(n.Left), Flatten(n.Right)...)
}
