// Package sizing decides how many CPUs and how much memory a guest gets.
package sizing

import "github.com/javanstorm/vmsetup/pkg/hypervisor"

// CPUCount requests half of the host's logical CPUs (one on a single-CPU
// host) and clamps the result into the platform bounds.
func CPUCount(hostCPUs int, b hypervisor.Bounds) uint {
	count := uint(1)
	if hostCPUs > 1 {
		count = uint(hostCPUs / 2)
	}
	return clamp(count, b.MinCPUs, b.MaxCPUs)
}

// MemorySize requests half of the host's physical memory and clamps the
// result into the platform bounds. The minimum wins on a tiny host.
func MemorySize(hostMemory uint64, b hypervisor.Bounds) uint64 {
	return clamp(hostMemory/2, b.MinMemory, b.MaxMemory)
}

func clamp[T uint | uint64](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
