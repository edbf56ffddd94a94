package parser

import "strconv"

// Env is the minimal variable lookup the expander needs. The shell's
// Environment type satisfies this without pkg/parser importing it.
type Env interface {
	Get(name string) string
}

// Expand walks the tree, rewriting every Command's Argv from its
// pre-expansion Words and recording heredoc delimiter metadata on Heredoc
// redirections. It must run after Parse and before the heredoc collector.
func Expand(n *Node, env Env, lastStatus int) {
	switch n.Kind {
	case NodeAnd, NodeOr, NodePipe:
		Expand(n.Left, env, lastStatus)
		Expand(n.Right, env, lastStatus)
	case NodeCmd:
		expandCommand(n.Cmd, env, lastStatus)
	}
}

// ExpandLiteral applies the unquoted/double-quoted expansion rule ($NAME,
// $?) to an arbitrary string. Used by the heredoc collector, whose body
// text never passed through the lexer as a WORD but still expands the
// same way an unquoted here-doc body does.
func ExpandLiteral(s string, env Env, lastStatus int) string {
	return expandSegment(Segment{Text: s, Quote: QuoteDouble}, env, lastStatus)
}

func expandCommand(cmd *Command, env Env, lastStatus int) {
	cmd.Argv = cmd.Argv[:0]
	for _, w := range cmd.Words {
		val, elide := expandWord(w, env, lastStatus)
		if elide {
			continue
		}
		cmd.Argv = append(cmd.Argv, val)
	}

	for i := range cmd.Redirs {
		r := &cmd.Redirs[i]
		if r.Kind == RedirKindHeredoc {
			r.Delim = r.Target.Raw()
			r.Quoted = r.Target.AnyQuoted()
			continue
		}
		val, _ := expandWord(r.Target, env, lastStatus)
		r.Target = Token{Kind: Word, Segments: []Segment{{Text: val, Quote: QuoteDouble}}}
	}
}

// expandWord expands every segment of a WORD and concatenates them. It
// reports elide=true when the word was composed entirely of unquoted
// segments and expanded to the empty string; such words are dropped from
// the argument vector rather than contributing an empty argument.
func expandWord(w Token, env Env, lastStatus int) (value string, elide bool) {
	anyQuoted := false
	out := ""
	for _, seg := range w.Segments {
		if seg.Quote != QuoteNone {
			anyQuoted = true
		}
		out += expandSegment(seg, env, lastStatus)
	}
	return out, !anyQuoted && out == ""
}

// expandSegment applies the per-quote-mode expansion rule to one
// segment's literal text: single-quoted segments are returned verbatim;
// unquoted and double-quoted segments both get $NAME and $? expansion
// (the only difference between them is the stripped quote characters,
// which are never part of Segment.Text to begin with).
func expandSegment(seg Segment, env Env, lastStatus int) string {
	if seg.Quote == QuoteSingle {
		return seg.Text
	}

	s := seg.Text
	out := make([]byte, 0, len(s))
	i := 0
	for i < len(s) {
		c := s[i]
		if c != '$' {
			out = append(out, c)
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == '?' {
			out = append(out, strconv.Itoa(lastStatus)...)
			i += 2
			continue
		}
		if i+1 < len(s) && isNameStartByte(s[i+1]) {
			j := i + 2
			for j < len(s) && isNameContByte(s[j]) {
				j++
			}
			name := s[i+1 : j]
			out = append(out, env.Get(name)...)
			i = j
			continue
		}
		// '$' not followed by '?' or a name-start (including end of
		// string): emitted literally.
		out = append(out, '$')
		i++
	}
	return string(out)
}

func isNameStartByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameContByte(c byte) bool {
	return isNameStartByte(c) || (c >= '0' && c <= '9')
}
