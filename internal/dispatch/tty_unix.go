//go:build !windows

package dispatch

var controllingTerminal = "/dev/tty"
