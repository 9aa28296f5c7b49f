// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import "syscall"

// brokenErrnos are the inotify resource limits. Once one is hit the kernel
// stops queueing events for the project, so a pass would never fire again.
var brokenErrnos = []syscall.Errno{
	syscall.ENOSPC, // fs.inotify.max_user_watches
	syscall.EMFILE,
	syscall.ENFILE,
}
