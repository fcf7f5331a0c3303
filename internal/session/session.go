// Package session detects the kind of terminal session the tools run
// in. Long compressions and transfers die with a dropped SSH
// connection, so the CLIs warn when run over SSH without tmux.
package session

import (
	"os"
	"strings"
)

// InTmux reports whether we are running inside a tmux (or screen)
// session.
func InTmux() bool {
	if os.Getenv("TMUX") != "" {
		return true
	}
	term := os.Getenv("TERM")
	return strings.HasPrefix(term, "screen") || strings.HasPrefix(term, "tmux")
}

// InSSH reports whether this is an SSH session.
func InSSH() bool {
	return os.Getenv("SSH_CONNECTION") != "" || os.Getenv("SSH_CLIENT") != ""
}

// NeedsDisconnectWarning reports whether the user should be asked to
// confirm before a long-running job: connected over SSH with nothing to
// keep the job alive if the connection drops.
func NeedsDisconnectWarning() bool {
	return InSSH() && !InTmux()
}
