//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Detach puts cmd in its own process group, so a Ctrl-C aimed at us does
// not reach it.
func Detach(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}
