// Package process configures interpreter processes so that a run can be torn
// down together with any children it started.
package process

import "os/exec"

// Configure puts cmd in its own process group and makes context
// cancellation kill that whole group instead of only the direct child.
// Must be called before cmd.Start.
func Configure(cmd *exec.Cmd) {
	setGroup(cmd)
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		KillProcessGroup(cmd.Process.Pid)
		return nil
	}
}
