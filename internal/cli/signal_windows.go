//go:build windows

package cli

import (
	"fmt"
	"syscall"
)

func describeSignal(sig syscall.Signal) string {
	return fmt.Sprintf("signal %d", sig)
}
