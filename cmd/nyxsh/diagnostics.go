// nyxsh reports every runtime failure as a single line on stderr, prefixed
// "nyxsh: ", and never otherwise. There is no logging package in this
// repo: a shell's error channel is its stderr, and a second structured
// log stream alongside it would just be noise the user never asked for.
package main

import (
	"fmt"
	"os"
)

// diagf writes one diagnostic line to stderr.
func diagf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "nyxsh: "+format+"\n", args...)
}
