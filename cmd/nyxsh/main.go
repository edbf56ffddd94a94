// nyxsh is an interactive Unix shell core: lexer, parser, expander,
// heredoc collector, and executor over a pipe/and/or grammar of simple
// commands.
//
// Usage:
//
//	nyxsh [options] [script]
//
// Options:
//
//	-c, --command string   execute string and exit
//	-i, --interactive      force interactive mode regardless of stdin
//	    --norc             skip loading the startup file
//	    --rcfile path      load path instead of ~/.nyxshrc.toml
//
// With neither -c nor a script argument, nyxsh reads from stdin: as an
// interactive REPL if stdin is a terminal, or as a script otherwise.
package main

import (
	"os"
	"strconv"

	flag "github.com/spf13/pflag"

	"nyxsh/pkg/shellenv"
)

func main() {
	var command string
	var interactive bool
	var norc bool
	var rcfile string

	flag.StringVarP(&command, "command", "c", "", "execute string and exit")
	flag.BoolVarP(&interactive, "interactive", "i", false, "force interactive mode")
	flag.BoolVar(&norc, "norc", false, "skip loading the startup file")
	flag.StringVar(&rcfile, "rcfile", "", "load this file instead of ~/.nyxshrc.toml")
	flag.Parse()

	env := loadEnvironment(norc, rcfile)

	if command != "" {
		sh := NewShell(env, os.Stdin, os.Stdout, os.Stderr)
		os.Exit(sh.RunCommand(command))
	}

	args := flag.Args()
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			diagf("%s: %v", args[0], err)
			os.Exit(1)
		}
		defer f.Close()
		sh := NewShell(env, f, os.Stdout, os.Stderr)
		os.Exit(sh.RunScript())
	}

	sh := NewShell(env, os.Stdin, os.Stdout, os.Stderr)
	sh.Interactive = interactive || stdinIsTerminal()
	if sh.Interactive {
		sh.RunInteractive()
		os.Exit(sh.LastStatus)
	}
	os.Exit(sh.RunScript())
}

// loadEnvironment seeds an Environment from the rc file (unless norc or
// the file is absent or empty) and then overlays the real process
// environment, so a variable set by the shell's own invocation always
// wins over a stale rc-file default.
func loadEnvironment(norc bool, rcfile string) *shellenv.Environment {
	env := shellenv.New()

	if !norc {
		path := rcfile
		if path == "" {
			path = shellenv.DefaultRCPath()
		}
		kvs, err := shellenv.LoadRC(path)
		if err != nil {
			diagf("%v", err)
		}
		for _, kv := range kvs {
			env.Set(kv.Name, kv.Value)
		}
	}

	for _, name := range shellenv.FromProcessEnv().Names() {
		env.Set(name, os.Getenv(name))
	}

	if env.Get("PWD") == "" {
		if wd, err := os.Getwd(); err == nil {
			env.Set("PWD", wd)
		}
	}

	if lvl, ok := env.Lookup("SHLVL"); ok {
		n, err := strconv.Atoi(lvl)
		if err != nil {
			n = 0
		}
		env.Set("SHLVL", strconv.Itoa(n+1))
	}

	return env
}
