//go:build !linux && !darwin

package interaction

import "errors"

func enableRawMode(fd int) (func() error, error) {
	return nil, errors.New("raw keyboard mode is not supported on this platform")
}
