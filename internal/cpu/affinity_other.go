//go:build !linux

package cpu

func pinToCore(int) (int, error) {
	return 0, ErrPinUnsupported
}

// CurrentCores is not available off Linux.
func CurrentCores() ([]int, error) {
	return nil, ErrPinUnsupported
}
