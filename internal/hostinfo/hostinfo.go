// Package hostinfo probes the machine's total schedulable capacity. The
// daemon queries it fresh every tick rather than caching a boot-time value.
package hostinfo

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

type Capacity struct {
	Cores    int
	MemoryGB int
}

func Probe() (Capacity, error) {
	cores, err := cpu.Counts(true)
	if err != nil {
		return Capacity{}, fmt.Errorf("probe cpu count: %w", err)
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return Capacity{}, fmt.Errorf("probe memory: %w", err)
	}
	memoryGB := int(vm.Total / (1 << 30))
	if memoryGB < 1 {
		memoryGB = 1
	}
	return Capacity{Cores: cores, MemoryGB: memoryGB}, nil
}
