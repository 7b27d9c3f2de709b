package compute

import (
	"runtime"
	"sync"
)

// minParallelPixels is the smallest row range worth splitting.
const minParallelPixels = 4096

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

// NewCPUBackendN uses exactly n workers; n < 1 means one.
func NewCPUBackendN(n int) *CPUBackend {
	if n < 1 {
		n = 1
	}
	return &CPUBackend{workers: n}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}
func (c *CPUBackend) Workers() int    { return c.workers }

func (c *CPUBackend) Shade(dst []uint8, width, startRow, endRow int, fn Shader) error {
	if err := checkBounds(dst, width, startRow, endRow); err != nil {
		return err
	}

	rows := endRow - startRow
	if c.workers <= 1 || rows < 2 || rows*width < minParallelPixels {
		return shadeRows(dst, width, startRow, startRow, endRow, fn)
	}

	workers := c.workers
	if rows < workers {
		workers = rows
	}
	chunkSize := (rows + workers - 1) / workers

	errs := make([]error, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		from := startRow + w*chunkSize
		to := from + chunkSize
		if to > endRow {
			to = endRow
		}
		if from >= to {
			continue
		}

		wg.Add(1)
		go func(worker, from, to int) {
			defer wg.Done()
			errs[worker] = shadeRows(dst, width, startRow, from, to, fn)
		}(w, from, to)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
