//go:build !linux

package jit

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/unix"
)

var errMappingCollision = errors.New("jit: requested address already mapped")

// mapAnon falls back to an address-agnostic mmap on platforms without a
// MAP_FIXED_NOREPLACE-equivalent wired up here; the hint is not passed to
// mmap at all, so the kernel chooses the address.
func mapAnon(hint uintptr, size int) (uintptr, []byte, error) {
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return 0, nil, err
	}
	return uintptr(unsafe.Pointer(&mem[0])), mem, nil
}

func protect(mem []byte, executable bool) error {
	prot := unix.PROT_READ | unix.PROT_WRITE
	if executable {
		prot = unix.PROT_READ | unix.PROT_EXEC
	}
	return unix.Mprotect(mem, prot)
}

func unmapAnon(mem []byte) error {
	return unix.Munmap(mem)
}
