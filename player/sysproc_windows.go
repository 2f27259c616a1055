//go:build windows

package player

import (
	"os/exec"
	"syscall"
)

// createNewProcessGroup keeps console ctrl events sent to the menu away from mpv.
const createNewProcessGroup = 0x00000200

func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: createNewProcessGroup}
}

func killProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
