//go:build windows

package dispatch

var controllingTerminal = "CONIN$"
