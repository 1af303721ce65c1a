//go:build linux

package jit

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/unix"
)

// errMappingCollision is returned by mapAnon when MAP_FIXED_NOREPLACE
// refused the hint because something is already mapped there; the caller
// advances the hint and retries.
var errMappingCollision = errors.New("jit: requested address already mapped")

// mapAnon reserves size bytes of anonymous, read-write memory, preferring
// the given hint address but never clobbering an existing mapping. hint==0
// means "no preference." The flag that makes that refusal-not-clobber
// possible, MAP_FIXED_NOREPLACE, is Linux-specific (added in 4.17); its
// absence on older kernels degrades the hint to advisory, same as
// everywhere else this module runs.
func mapAnon(hint uintptr, size int) (uintptr, []byte, error) {
	flags := unix.MAP_ANON | unix.MAP_PRIVATE
	if hint != 0 {
		flags |= unix.MAP_FIXED_NOREPLACE
	}
	addr, _, errno := unix.Syscall6(unix.SYS_MMAP, hint, uintptr(size),
		uintptr(unix.PROT_READ|unix.PROT_WRITE), uintptr(flags), ^uintptr(0), 0)
	if errno != 0 {
		if hint != 0 && errno == unix.EEXIST {
			return 0, nil, errMappingCollision
		}
		return 0, nil, errno
	}
	mem := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	return addr, mem, nil
}

func protect(mem []byte, executable bool) error {
	prot := unix.PROT_READ | unix.PROT_WRITE
	if executable {
		prot = unix.PROT_READ | unix.PROT_EXEC
	}
	return unix.Mprotect(mem, prot)
}

// unmapAnon releases a region mapAnon returned. unix.Munmap only knows the
// regions unix.Mmap itself created, so the raw SYS_MUNMAP is used to match
// mapAnon's raw SYS_MMAP.
func unmapAnon(mem []byte) error {
	_, _, errno := unix.Syscall(unix.SYS_MUNMAP, uintptr(unsafe.Pointer(&mem[0])), uintptr(len(mem)), 0)
	if errno != 0 {
		return errno
	}
	return nil
}
