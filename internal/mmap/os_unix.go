//go:build unix

package mmap

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func osMap(f *os.File, size int) ([]byte, func([]byte) error, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, unix.Munmap, nil
}

func osMapAnon(size int) ([]byte, func([]byte) error, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	return data, unix.Munmap, nil
}

var advice = map[AccessPattern]int{
	AccessSequential: unix.MADV_SEQUENTIAL,
	AccessRandom:     unix.MADV_RANDOM,
	AccessWillNeed:   unix.MADV_WILLNEED,
	AccessDontNeed:   unix.MADV_DONTNEED,
}

func osAdvise(data []byte, pattern AccessPattern) error {
	if len(data) == 0 {
		return nil
	}
	a, ok := advice[pattern]
	if !ok {
		a = unix.MADV_NORMAL
	}
	// Records are not page aligned; the hint is advisory.
	if err := unix.Madvise(data, a); err != nil && !errors.Is(err, unix.EINVAL) {
		return err
	}
	return nil
}
