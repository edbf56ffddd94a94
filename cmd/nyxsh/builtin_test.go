package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nyxsh/pkg/shellenv"
)

func newBuiltinShell() (*Shell, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	sh := NewShell(shellenv.New(), strings.NewReader(""), out, errOut)
	return sh, out, errOut
}

func TestBuiltinEcho(t *testing.T) {
	sh, out, _ := newBuiltinShell()
	status := builtinEcho(sh, []string{"echo", "a", "b"}, nil, out, sh.Stderr)
	if status != 0 || out.String() != "a b\n" {
		t.Errorf("unexpected result: status=%d out=%q", status, out.String())
	}
}

func TestBuiltinEchoDashN(t *testing.T) {
	sh, out, _ := newBuiltinShell()
	builtinEcho(sh, []string{"echo", "-n", "a"}, nil, out, sh.Stderr)
	if out.String() != "a" {
		t.Errorf("expected no trailing newline, got %q", out.String())
	}
}

func TestBuiltinEchoRepeatedDashN(t *testing.T) {
	sh, out, _ := newBuiltinShell()
	builtinEcho(sh, []string{"echo", "-n", "-n", "x"}, nil, out, sh.Stderr)
	if out.String() != "x" {
		t.Errorf("expected both leading -n consumed, got %q", out.String())
	}
}

func TestBuiltinExportBindsAndLists(t *testing.T) {
	sh, out, _ := newBuiltinShell()
	builtinExport(sh, []string{"export", "FOO=bar"}, nil, out, sh.Stderr)
	if sh.Env.Get("FOO") != "bar" {
		t.Fatalf("expected FOO=bar, got %q", sh.Env.Get("FOO"))
	}

	out.Reset()
	builtinExport(sh, []string{"export"}, nil, out, sh.Stderr)
	if out.String() != "FOO=bar\n" {
		t.Errorf("unexpected listing: %q", out.String())
	}
}

func TestBuiltinUnset(t *testing.T) {
	sh, _, _ := newBuiltinShell()
	sh.Env.Set("FOO", "bar")
	builtinUnset(sh, []string{"unset", "FOO"}, nil, nil, sh.Stderr)
	if _, ok := sh.Env.Lookup("FOO"); ok {
		t.Error("expected FOO to be unset")
	}
}

func TestBuiltinUnsetAbsentNameIsSilentNoOp(t *testing.T) {
	sh, _, errOut := newBuiltinShell()
	status := builtinUnset(sh, []string{"unset", "NEVER_SET"}, nil, nil, errOut)
	if status != 0 || errOut.String() != "" {
		t.Errorf("expected a silent no-op, got status=%d stderr=%q", status, errOut.String())
	}
}

func TestBuiltinUnsetInvalidNameIsDiagnostic(t *testing.T) {
	sh, _, errOut := newBuiltinShell()
	status := builtinUnset(sh, []string{"unset", "1BAD"}, nil, nil, errOut)
	if status != 1 {
		t.Errorf("expected status 1, got %d", status)
	}
	if errOut.String() == "" {
		t.Error("expected a diagnostic for an invalid identifier")
	}
}

func TestBuiltinPwd(t *testing.T) {
	sh, out, _ := newBuiltinShell()
	status := builtinPwd(sh, []string{"pwd"}, nil, out, sh.Stderr)
	wd, _ := os.Getwd()
	if status != 0 || strings.TrimSpace(out.String()) != wd {
		t.Errorf("expected %q, got %q", wd, out.String())
	}
}

func TestBuiltinCd(t *testing.T) {
	sh, _, errOut := newBuiltinShell()
	start, _ := os.Getwd()
	defer os.Chdir(start)

	dir := t.TempDir()
	status := builtinCd(sh, []string{"cd", dir}, nil, os.Stdout, errOut)
	if status != 0 {
		t.Fatalf("unexpected status %d: %s", status, errOut.String())
	}
	wd, _ := os.Getwd()
	resolvedDir, _ := filepath.EvalSymlinks(dir)
	resolvedWd, _ := filepath.EvalSymlinks(wd)
	if resolvedWd != resolvedDir {
		t.Errorf("expected cwd %q, got %q", resolvedDir, resolvedWd)
	}
	if sh.Env.Get("OLDPWD") != start {
		t.Errorf("expected OLDPWD %q, got %q", start, sh.Env.Get("OLDPWD"))
	}
}

func TestBuiltinCdNonexistentDirectory(t *testing.T) {
	sh, _, errOut := newBuiltinShell()
	status := builtinCd(sh, []string{"cd", "/definitely/not/a/real/path"}, nil, os.Stdout, errOut)
	if status != 1 {
		t.Errorf("expected status 1, got %d", status)
	}
	if errOut.String() == "" {
		t.Error("expected a diagnostic")
	}
}

func TestGetBuiltinUnknownReturnsNil(t *testing.T) {
	if GetBuiltin("not-a-builtin") != nil {
		t.Error("expected nil for an unrecognized name")
	}
	if GetBuiltin("echo") == nil {
		t.Error("expected echo to be recognized")
	}
}
