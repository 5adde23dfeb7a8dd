//go:build unix

package file

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// lock takes an exclusive flock on <document>.lock so that writers in other
// processes sharing the container wait for each other.
func (n *Namespace) lock() (func(), error) {
	f, err := os.OpenFile(n.path+".lock", os.O_CREATE|os.O_RDWR, n.perm)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	for {
		err = unix.Flock(int(f.Fd()), unix.LOCK_EX)
		if err != unix.EINTR {
			break
		}
	}
	if err != nil {
		f.Close() //nolint:errcheck
		return nil, fmt.Errorf("lock %s: %w", f.Name(), err)
	}
	return func() {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close() //nolint:errcheck
	}, nil
}
