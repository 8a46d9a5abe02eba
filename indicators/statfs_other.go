//go:build !(linux || darwin || freebsd)

package indicators

func freeBytes(string) (uint64, error) {
	return 0, ErrUnsupportedPlatform
}
