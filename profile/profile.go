package profile

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Profiler applies a [Config] around a run: [Profiler.Start] sets the
// runtime sampling rates and begins the CPU profile when one is
// configured, [Profiler.Stop] ends it and writes every configured
// snapshot profile.
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	cpuFile *os.File
	cfg     Config
}

// Start configures the runtime sampling rates and starts the CPU profile
// if a path is set.
func (p *Profiler) Start() error {
	runtime.MemProfileRate = p.cfg.MemProfileRate
	runtime.SetBlockProfileRate(p.cfg.BlockProfileRate)
	runtime.SetMutexProfileFraction(p.cfg.MutexProfileFraction)

	if p.cfg.CPUProfile == "" {
		return nil
	}

	f, err := os.Create(p.cfg.CPUProfile)
	if err != nil {
		return fmt.Errorf("creating CPU profile: %w", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()

		return fmt.Errorf("starting CPU profile: %w", err)
	}

	p.cpuFile = f

	return nil
}

// Stop ends the CPU profile and writes the enabled snapshot profiles.
func (p *Profiler) Stop() error {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		if err := p.cpuFile.Close(); err != nil {
			return fmt.Errorf("closing CPU profile: %w", err)
		}

		p.cpuFile = nil
	}

	snapshots := []struct {
		name string
		path string
	}{
		{"heap", p.cfg.HeapProfile},
		{"allocs", p.cfg.AllocsProfile},
		{"goroutine", p.cfg.GoroutineProfile},
		{"threadcreate", p.cfg.ThreadcreateProfile},
		{"block", p.cfg.BlockProfile},
		{"mutex", p.cfg.MutexProfile},
	}

	for _, s := range snapshots {
		if s.path == "" {
			continue
		}

		if err := writeSnapshot(s.name, s.path); err != nil {
			return err
		}
	}

	return nil
}

// writeSnapshot writes one named pprof profile to path.
func writeSnapshot(name, path string) error {
	prof := pprof.Lookup(name)
	if prof == nil {
		return fmt.Errorf("unknown profile %q", name)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s profile: %w", name, err)
	}

	if err := prof.WriteTo(f, 0); err != nil {
		_ = f.Close()

		return fmt.Errorf("writing %s profile: %w", name, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s profile: %w", name, err)
	}

	return nil
}
