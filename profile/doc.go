// Package profile wires runtime profiling into the generator CLI.
//
// Every pprof profile the runtime exposes is reachable through a flag:
// CPU, heap, allocs, goroutine, threadcreate, block, and mutex. A path
// left empty keeps the corresponding profile off.
//
// Typical usage registers the flags on the root command and brackets the
// run with the profiler:
//
//	cfg := profile.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	p := cfg.NewProfiler()
//	if err := p.Start(); err != nil {
//	    return err
//	}
//	defer p.Stop()
//
// A run is then profiled with flags like --cpu-profile=cpu.prof.
package profile
