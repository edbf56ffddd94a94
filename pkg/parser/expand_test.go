package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type mapEnv map[string]string

func (m mapEnv) Get(name string) string { return m[name] }

func expandOne(t *testing.T, input string, env mapEnv, lastStatus int) *Command {
	t.Helper()
	n, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q): unexpected error: %v", input, err)
	}
	Expand(n, env, lastStatus)
	return n.Cmd
}

func TestExpandUnquotedVariable(t *testing.T) {
	cmd := expandOne(t, "echo $NAME", mapEnv{"NAME": "world"}, 0)
	if len(cmd.Argv) != 2 || cmd.Argv[1] != "world" {
		t.Errorf("unexpected argv: %v", cmd.Argv)
	}
}

func TestExpandSingleQuotedIsLiteral(t *testing.T) {
	cmd := expandOne(t, `echo '$NAME'`, mapEnv{"NAME": "world"}, 0)
	if cmd.Argv[1] != "$NAME" {
		t.Errorf("expected literal $NAME, got %q", cmd.Argv[1])
	}
}

func TestExpandMixedQuoting(t *testing.T) {
	cmd := expandOne(t, `echo "$A"'$A'`, mapEnv{"A": "x"}, 0)
	if cmd.Argv[1] != "x$A" {
		t.Errorf("expected %q, got %q", "x$A", cmd.Argv[1])
	}
}

func TestExpandLastStatus(t *testing.T) {
	cmd := expandOne(t, "echo $?", mapEnv{}, 42)
	if cmd.Argv[1] != "42" {
		t.Errorf("expected %q, got %q", "42", cmd.Argv[1])
	}
}

func TestExpandDollarWithoutNameIsLiteral(t *testing.T) {
	cmd := expandOne(t, "echo a$ b", mapEnv{}, 0)
	if cmd.Argv[1] != "a$" {
		t.Errorf("expected literal trailing $, got %q", cmd.Argv[1])
	}
}

func TestExpandElidesEmptyUnquotedWord(t *testing.T) {
	cmd := expandOne(t, "echo a $UNSET b", mapEnv{}, 0)
	want := []string{"echo", "a", "b"}
	if diff := cmp.Diff(want, cmd.Argv); diff != "" {
		t.Errorf("argv mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandPreservesQuotedEmptyWord(t *testing.T) {
	cmd := expandOne(t, `echo a "" b`, mapEnv{}, 0)
	want := []string{"echo", "a", "", "b"}
	if len(cmd.Argv) != len(want) {
		t.Fatalf("expected %v, got %v", want, cmd.Argv)
	}
	for i := range want {
		if cmd.Argv[i] != want[i] {
			t.Errorf("argv[%d]: expected %q, got %q", i, want[i], cmd.Argv[i])
		}
	}
}

func TestExpandRedirectionTarget(t *testing.T) {
	cmd := expandOne(t, "cmd > $DIR/out.txt", mapEnv{"DIR": "/tmp"}, 0)
	if len(cmd.Redirs) != 1 || cmd.Redirs[0].Target.Raw() != "/tmp/out.txt" {
		t.Errorf("unexpected redirection target: %+v", cmd.Redirs)
	}
}

func TestExpandHeredocDelimiterNotExpanded(t *testing.T) {
	cmd := expandOne(t, "cmd << $NOTEXPANDED", mapEnv{"NOTEXPANDED": "oops"}, 0)
	if cmd.Redirs[0].Delim != "$NOTEXPANDED" {
		t.Errorf("expected literal delimiter, got %q", cmd.Redirs[0].Delim)
	}
}

func TestExpandHeredocQuotedDelimiterMarksQuoted(t *testing.T) {
	cmd := expandOne(t, `cmd << 'EOF'`, mapEnv{}, 0)
	if !cmd.Redirs[0].Quoted {
		t.Error("expected a quoted heredoc delimiter to be marked Quoted")
	}
	cmd2 := expandOne(t, "cmd << EOF", mapEnv{}, 0)
	if cmd2.Redirs[0].Quoted {
		t.Error("expected an unquoted heredoc delimiter to not be marked Quoted")
	}
}

func TestExpandLiteralMatchesDoubleQuoteRule(t *testing.T) {
	got := ExpandLiteral("hi $NAME, status $?", mapEnv{"NAME": "there"}, 7)
	want := "hi there, status 7"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
