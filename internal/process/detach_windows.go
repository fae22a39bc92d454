//go:build windows

package process

import (
	"os/exec"
	"syscall"
)

// createNewProcessGroup is CREATE_NEW_PROCESS_GROUP from the Win32 API.
const createNewProcessGroup = 0x00000200

// Detach starts cmd in a new process group, so console Ctrl-C events aimed
// at us do not reach it.
func Detach(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags |= createNewProcessGroup
}
