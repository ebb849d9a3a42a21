// Package sandbox confines the process to a directory with chroot(2).
package sandbox

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// ErrAlreadyConfined is returned when Enter is called more than once.
var ErrAlreadyConfined = errors.New("process is already confined")

var entered atomic.Bool

// Enter changes the root directory of the process to root and moves the
// working directory to the new "/". It can be called once per process, and
// the confinement can't be undone. Absolute paths opened afterwards resolve
// inside root.
func Enter(root string) error {
	if !entered.CompareAndSwap(false, true) {
		return ErrAlreadyConfined
	}

	if err := unix.Chroot(root); err != nil {
		return errors.Wrapf(err, "failed to chroot to %s", root)
	}
	if err := unix.Chdir("/"); err != nil {
		return errors.Wrap(err, "failed to chdir to new root")
	}

	return nil
}
