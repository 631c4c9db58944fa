/*
Package workers sizes the batch conversion pool.

Counts are derived from runtime.GOMAXPROCS(0), which Go sets from the
container CPU limit, rather than runtime.NumCPU(), which reports host CPUs.
An explicit count (the --workers flag or CONVERT_WORKERS) wins, but a pool
is never larger than the batch it serves:

	n := workers.ForJobs(len(jobs), cfg.Workers)
*/
package workers
