//go:build !cgo

package pointer

// NewRobot reports ErrUnsupported: robotgo needs cgo.
func NewRobot() (Pointer, error) {
	return nil, &PlatformError{Op: "init", Err: ErrUnsupported}
}
