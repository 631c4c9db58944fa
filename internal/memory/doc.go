// Package memory keeps compconv inside its container's memory budget.
//
// # Heap limit
//
// Go does not read the cgroup memory limit, so [ConfigureFromEnv] derives
// GOMEMLIMIT from the environment. Call it before the first conversion:
//
//   - GOMEMLIMIT: standard Go variable. When set it wins and nothing is changed.
//   - MEMORY_LIMIT: container limit in bytes, usually from the Kubernetes
//     Downward API (resourceFieldRef: limits.memory).
//   - MEMORY_RATIO: share of MEMORY_LIMIT given to the Go heap, between 0
//     and 1. Default 0.9, since conversions run no subprocesses or CGO.
//
// Example deployment snippet:
//
//	env:
//	- name: MEMORY_LIMIT
//	  valueFrom:
//	    resourceFieldRef:
//	      resource: limits.memory
//
// # Backpressure
//
// Every composition is held in memory as a DOM while it is rewritten, so a
// large batch or a burst of API requests can outgrow the limit. A [Guard]
// samples heap usage and pauses new work once it crosses the pause mark,
// resuming when usage falls back below the resume mark:
//
//	guard := memory.NewGuard(memory.DefaultGuardConfig())
//	guard.Start()
//	defer guard.Stop()
//
//	if err := guard.Wait(ctx); err != nil {
//	    return err
//	}
//
// A nil *Guard never pauses, and a guard with no limit is inert.
package memory
