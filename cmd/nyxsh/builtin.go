// Package main implements nyxsh, an interactive Unix shell core.
// This file provides the shell's built-in commands.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"nyxsh/pkg/shellenv"
)

// BuiltinFunc implements a built-in command. It receives the shell so it
// can read or mutate Env and LastStatus, plus the stdio it should use —
// which, inside a pipeline, is a pipe end rather than the shell's own.
type BuiltinFunc func(sh *Shell, args []string, stdin io.Reader, stdout, stderr io.Writer) int

// BuiltinCommand names one built-in and its implementation.
type BuiltinCommand struct {
	Name string
	Func BuiltinFunc
}

var builtins = []BuiltinCommand{
	{"echo", builtinEcho},
	{"cd", builtinCd},
	{"pwd", builtinPwd},
	{"export", builtinExport},
	{"unset", builtinUnset},
	{"env", builtinEnv},
	{"exit", builtinExit},
}

var builtinMap = make(map[string]BuiltinFunc, len(builtins))

func init() {
	for _, b := range builtins {
		builtinMap[b.Name] = b.Func
	}
}

// GetBuiltin returns the built-in implementing name, or nil if name is not
// a built-in.
func GetBuiltin(name string) BuiltinFunc {
	return builtinMap[name]
}

// builtinEcho writes its arguments separated by single spaces, followed by
// a newline unless one or more leading -n flags were given, in any
// combination ("-n -n", "-nn").
func builtinEcho(sh *Shell, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rest := args[1:]
	newline := true
	for len(rest) > 0 && len(rest[0]) > 1 && rest[0][0] == '-' && strings.Trim(rest[0][1:], "n") == "" {
		newline = false
		rest = rest[1:]
	}
	fmt.Fprint(stdout, strings.Join(rest, " "))
	if newline {
		fmt.Fprintln(stdout)
	}
	return 0
}

// builtinCd changes the shell's working directory and keeps PWD/OLDPWD in
// Env synchronized with the process's actual directory. With no argument
// it changes to HOME; "cd -" changes to OLDPWD and echoes the new
// directory, matching the common shell convention.
func builtinCd(sh *Shell, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	target := sh.Env.Get("HOME")
	printTarget := false

	switch {
	case len(args) > 2:
		fmt.Fprintln(stderr, "cd: too many arguments")
		return 1
	case len(args) == 2 && args[1] == "-":
		target = sh.Env.Get("OLDPWD")
		if target == "" {
			fmt.Fprintln(stderr, "cd: OLDPWD not set")
			return 1
		}
		printTarget = true
	case len(args) == 2:
		target = args[1]
	}

	old, _ := os.Getwd()
	if err := os.Chdir(target); err != nil {
		fmt.Fprintf(stderr, "cd: %s: %v\n", target, err)
		return 1
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = target
	}
	sh.Env.Set("OLDPWD", old)
	sh.Env.Set("PWD", wd)
	if printTarget {
		fmt.Fprintln(stdout, wd)
	}
	return 0
}

// builtinPwd prints the working directory.
func builtinPwd(sh *Shell, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "pwd: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, wd)
	return 0
}

// builtinExport binds NAME=VALUE pairs (or, for a bare NAME, binds it to
// its current value or "" if unset) into Env. With no arguments it prints
// every binding as NAME=VALUE, one per line, in insertion order.
func builtinExport(sh *Shell, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 1 {
		for _, name := range sh.Env.Names() {
			fmt.Fprintf(stdout, "%s=%s\n", name, sh.Env.Get(name))
		}
		return 0
	}

	status := 0
	for _, arg := range args[1:] {
		name, value, hasValue := strings.Cut(arg, "=")
		if !hasValue {
			value = sh.Env.Get(name)
		}
		if err := sh.Env.Set(name, value); err != nil {
			fmt.Fprintf(stderr, "export: %v\n", err)
			status = 1
		}
	}
	return status
}

// builtinUnset removes each named binding. An absent name is a silent
// no-op, but a syntactically invalid name is a diagnostic and status 1.
func builtinUnset(sh *Shell, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	status := 0
	for _, name := range args[1:] {
		if !shellenv.ValidName(name) {
			fmt.Fprintf(stderr, "unset: %s: not a valid identifier\n", name)
			status = 1
			continue
		}
		sh.Env.Unset(name)
	}
	return status
}

// builtinEnv prints every binding as NAME=VALUE, one per line, in
// insertion order. It takes no arguments.
func builtinEnv(sh *Shell, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	for _, name := range sh.Env.Names() {
		fmt.Fprintf(stdout, "%s=%s\n", name, sh.Env.Get(name))
	}
	return 0
}

// builtinExit terminates the process with the given status, the shell's
// last recorded status if no argument was given, or masked to a byte for
// a numeric argument. More than one argument is a diagnostic and status 1
// without exiting; an interactive shell echoes "exit" to stderr first,
// matching the convention of announcing termination at an interactive
// prompt.
func builtinExit(sh *Shell, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if sh.Interactive {
		fmt.Fprintln(stderr, "exit")
	}

	switch len(args) {
	case 1:
		os.Exit(sh.LastStatus)
	case 2:
		n, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(stderr, "exit: %s: numeric argument required\n", args[1])
			os.Exit(2)
		}
		os.Exit(n & 0xff)
	default:
		fmt.Fprintln(stderr, "exit: too many arguments")
		return 1
	}
	return 0 // unreachable
}
