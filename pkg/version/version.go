// Package version carries build metadata injected via ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version = "0.1.0"
	Commit  = "none"
)

// String returns the one-line version banner printed by --version.
func String() string {
	v := Version
	if Commit != "" && Commit != "none" {
		short := Commit
		if len(short) > 7 {
			short = short[:7]
		}
		v = fmt.Sprintf("%s (%s)", v, short)
	}
	return fmt.Sprintf("chat-cli %s %s/%s %s", v, runtime.GOOS, runtime.GOARCH, runtime.Version())
}
