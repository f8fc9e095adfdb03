package profile

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Rate flag names, shared between registration and completion wiring.
const (
	flagMemProfileRate       = "mem-profile-rate"
	flagBlockProfileRate     = "block-profile-rate"
	flagMutexProfileFraction = "mutex-profile-fraction"
)

// Config holds the profiling knobs for one generator run: an output path
// per profile kind and the runtime sampling rates. An empty path leaves
// that profile off.
//
// Create instances with [NewConfig], register CLI flags with
// [Config.RegisterFlags], and build the [Profiler] acting on the values
// with [Config.NewProfiler].
type Config struct {
	CPUProfile          string
	HeapProfile         string
	AllocsProfile       string
	GoroutineProfile    string
	ThreadcreateProfile string
	BlockProfile        string
	MutexProfile        string

	MemProfileRate       int
	BlockProfileRate     int
	MutexProfileFraction int
}

// NewConfig returns a [Config] with every profile disabled. The sampling
// rates stay zero until [Config.RegisterFlags] binds their flag defaults.
func NewConfig() *Config {
	return &Config{}
}

// RegisterFlags adds the profiling flags to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	paths := []struct {
		dst  *string
		name string
		kind string
	}{
		{&c.CPUProfile, "cpu-profile", "CPU"},
		{&c.HeapProfile, "heap-profile", "heap"},
		{&c.AllocsProfile, "allocs-profile", "allocs"},
		{&c.GoroutineProfile, "goroutine-profile", "goroutine"},
		{&c.ThreadcreateProfile, "threadcreate-profile", "threadcreate"},
		{&c.BlockProfile, "block-profile", "block"},
		{&c.MutexProfile, "mutex-profile", "mutex"},
	}

	for _, p := range paths {
		flags.StringVar(p.dst, p.name, "", "write "+p.kind+" profile to file")
	}

	flags.IntVar(&c.MemProfileRate, flagMemProfileRate, 524288,
		"memory profile rate (bytes per sample)")
	flags.IntVar(&c.BlockProfileRate, flagBlockProfileRate, 1,
		"block profile rate (nanoseconds)")
	flags.IntVar(&c.MutexProfileFraction, flagMutexProfileFraction, 1,
		"mutex profile fraction (1/N sampling)")
}

// RegisterCompletions registers shell completions for the profiling flags
// on cmd. The rate flags suppress file completion; the path flags keep the
// default file completion.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, name := range []string{flagMemProfileRate, flagBlockProfileRate, flagMutexProfileFraction} {
		if err := cmd.RegisterFlagCompletionFunc(name, noFileComp); err != nil {
			return fmt.Errorf("registering %s completion: %w", name, err)
		}
	}

	return nil
}

// NewProfiler creates a [Profiler] acting on a snapshot of this [Config].
func (c *Config) NewProfiler() *Profiler {
	return &Profiler{cfg: *c}
}
