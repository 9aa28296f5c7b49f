// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestWatcherBroken(t *testing.T) {
	t.Parallel()

	for _, errno := range brokenErrnos {
		t.Run(errno.Error(), func(t *testing.T) {
			t.Parallel()
			if !watcherBroken(errno) {
				t.Errorf("watcherBroken(%v) = false, want true", errno)
			}
			if !watcherBroken(fmt.Errorf("fsnotify: %w", errno)) {
				t.Errorf("watcherBroken(wrapped %v) = false, want true", errno)
			}
		})
	}

	for _, err := range []error{
		syscall.Errno(0xdead),
		errors.New("queue overflow"),
	} {
		if watcherBroken(err) {
			t.Errorf("watcherBroken(%v) = true, want false", err)
		}
	}
}
