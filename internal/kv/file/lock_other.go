//go:build !unix

package file

// lock is a no-op where flock is unavailable; writes are then serialized
// within the process only.
func (n *Namespace) lock() (func(), error) {
	return func() {}, nil
}
