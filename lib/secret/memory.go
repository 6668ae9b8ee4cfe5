// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// lockRegion allocates size bytes of anonymous memory outside the Go
// heap. The region is:
//   - Locked into physical RAM (mlock), preventing swap
//   - Excluded from core dumps (MADV_DONTDUMP)
//   - Invisible to the garbage collector
//
// mmap returns zero-filled pages, so the region starts out zeroed.
func lockRegion(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret: region size must be positive, got %d", size)
	}

	region, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("secret: mmap failed: %w", err)
	}

	if err := unix.Mlock(region); err != nil {
		unix.Munmap(region)
		return nil, fmt.Errorf("secret: mlock failed: %w", err)
	}

	if err := unix.Madvise(region, unix.MADV_DONTDUMP); err != nil {
		unix.Munlock(region)
		unix.Munmap(region)
		return nil, fmt.Errorf("secret: madvise(MADV_DONTDUMP) failed: %w", err)
	}

	return region, nil
}

// releaseRegion zeroes, unlocks and unmaps a region returned by
// lockRegion. The region must not be used afterwards. Unlock and unmap
// failures are reported but the zeroing has already happened, and the
// kernel reclaims the mapping at process exit regardless.
func releaseRegion(region []byte) error {
	Zero(region)

	var firstError error
	if err := unix.Munlock(region); err != nil {
		firstError = fmt.Errorf("secret: munlock failed: %w", err)
	}
	if err := unix.Munmap(region); err != nil && firstError == nil {
		firstError = fmt.Errorf("secret: munmap failed: %w", err)
	}
	return firstError
}
