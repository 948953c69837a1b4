//go:build !windows

package execrunner

import "os/exec"

func hideWindow(cmd *exec.Cmd) {}
