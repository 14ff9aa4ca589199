// Package profile provides optional runtime profiling for the monkey
// interpreter using [github.com/pkg/profile].
//
// Profiling must be enabled at build time with the "pprof" build tag.
// Without it every operation is a no-op and [Modes] is empty.
//
//	go build -tags pprof -o monkey .
//	monkey --pprof-mode cpu run fib.mk
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     blocking (synchronization) profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace
//
// # Usage
//
//	stop := profile.Config{Mode: "cpu", Path: dir, Quiet: true}.Start()
//	defer stop.Stop()
//
// Profiles are written to Path with names matching the mode, e.g.
// cpu.pprof, and are read with go tool pprof:
//
//	go tool pprof -http=: ./monkey ~/.cache/monkey/pprof/cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
