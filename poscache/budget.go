// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package poscache

import (
	"fmt"
	"unsafe"

	"github.com/shirou/gopsutil/v3/mem"
)

// DefaultSampleBudget is the largest frames×primitives product a cache is
// built for unless another budget is configured.
const DefaultSampleBudget = 50_000

// BytesPerSample is the memory held per cached (frame, primitive) pair:
// position, bounding box and color. Grid cells are not counted.
const BytesPerSample = int(unsafe.Sizeof(Point{}) + unsafe.Sizeof(BoundingBox{}) + 4)

// MemoryBudget derives a sample budget from the currently available
// system memory. fraction is the share of available memory the cache may
// use; values outside (0, 1] allow all of it. The result is never below
// DefaultSampleBudget.
func MemoryBudget(fraction float64) (int, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return DefaultSampleBudget, fmt.Errorf("poscache: read memory stats: %w", err)
	}
	return budgetFor(vm.Available, fraction), nil
}

func budgetFor(available uint64, fraction float64) int {
	if !(fraction > 0) || fraction > 1 {
		fraction = 1
	}
	samples := float64(available) * fraction / float64(BytesPerSample)
	const maxBudget = 1 << 40
	if samples > maxBudget {
		samples = maxBudget
	}
	return max(int(samples), DefaultSampleBudget)
}
