package workers

import "runtime"

// PerCPU is the pool size per available CPU. A conversion reads and writes
// files around an in-memory rewrite, so it is not purely CPU-bound.
const PerCPU = 1.5

// ForJobs returns the pool size for a batch of jobs. A positive requested
// count pins the size; otherwise it follows GOMAXPROCS, which Go derives
// from the container CPU quota. The result is at least 1 and never more
// than jobs when jobs is positive.
func ForJobs(jobs, requested int) int {
	n := requested
	if n <= 0 {
		n = int(float64(runtime.GOMAXPROCS(0)) * PerCPU)
	}
	if jobs > 0 && n > jobs {
		n = jobs
	}
	return max(n, 1)
}
