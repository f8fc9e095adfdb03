package generate

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/genconf/genconf/render"
	"github.com/genconf/genconf/scenario"
	"github.com/genconf/genconf/schema"
)

var (
	// ErrConflict marks a destination whose raw template would be
	// overridden by a schema source from a higher-precedence overlay.
	ErrConflict = errors.New("raw template conflicts with schema sources")

	// ErrValidation marks schema documents that violate structural rules.
	ErrValidation = errors.New("schema validation failed")

	// ErrGenerate reports that at least one destination failed; the run
	// still produces every destination it can.
	ErrGenerate = errors.New("generation failed")
)

// Options configures a [Pipeline].
type Options struct {
	// OutputDir is prepended to every destination path. Empty writes
	// relative to the filesystem root, mirroring the overlay layout.
	OutputDir string

	// Render carries the hint style and top-level spacing from the
	// orchestrator config.
	Render render.Options

	// Env supplies {VAR} and ${VAR} substitutions.
	Env scenario.Env
}

// Pipeline produces output files from collected targets.
//
// Create instances with [New].
type Pipeline struct {
	fs   afero.Fs
	opts Options
}

// New creates a [Pipeline] reading sources from and writing outputs to fsys.
func New(fsys afero.Fs, opts Options) *Pipeline {
	return &Pipeline{fs: fsys, opts: opts}
}

// Run executes the full pipeline for cfg against fsys: activate scenarios,
// validate the environment, collect the overlay files and produce every
// destination.
func Run(fsys afero.Fs, cfg *scenario.Config, env scenario.Env, outputDir string) error {
	active, err := scenario.Activate(cfg, env)
	if err != nil {
		return err
	}

	err = scenario.ValidateEnv(cfg, active, env)
	if err != nil {
		return err
	}

	for _, sc := range active {
		slog.Info("scenario active",
			slog.String("value", sc.Value),
			slog.Int("priority", sc.Priority))
	}

	targets, err := Collect(fsys, active, env)
	if err != nil {
		return err
	}

	p := New(fsys, Options{
		OutputDir: outputDir,
		Env:       env,
		Render: render.Options{
			OverrideHintStyle: cfg.OverrideHintStyle,
			TopLevelSpacing:   cfg.TopLevelSpacing,
		},
	})

	return p.Run(targets)
}

// Run produces every target. Failed destinations are logged and counted,
// never aborting the remaining work; a non-nil [ErrGenerate] at the end
// reports how many failed.
func (p *Pipeline) Run(targets []Target) error {
	failed := 0

	for _, t := range targets {
		err := p.produce(t)
		if err != nil {
			slog.Error("destination failed",
				slog.String("dest", t.Dest),
				slog.Any("error", err))

			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d destinations", ErrGenerate, failed, len(targets))
	}

	return nil
}

func (p *Pipeline) produce(t Target) error {
	dest := schema.SubstitutePath(t.Dest, p.opts.Env)

	err := checkConflict(t)
	if err != nil {
		return err
	}

	if last := t.Sources[len(t.Sources)-1]; last.Type == TypeRaw {
		return p.copyRaw(last, dest)
	}

	return p.renderTarget(t, dest)
}

// checkConflict rejects a destination where a schema source follows a raw
// template: the raw bytes could neither merge under the schema nor
// override it.
func checkConflict(t Target) error {
	rawPath := ""

	for _, src := range t.Sources {
		switch src.Type {
		case TypeRaw:
			rawPath = src.Path

		case TypeJSON:
			if rawPath != "" {
				return fmt.Errorf("%w: %q would override %q", ErrConflict, src.Path, rawPath)
			}
		}
	}

	return nil
}

// renderTarget merges every schema source in application order, substitutes
// default values and renders the destination. Sources that cannot be read
// or parsed are reported and skipped; structural violations fail the whole
// destination.
func (p *Pipeline) renderTarget(t Target, dest string) error {
	var merged []*schema.Node

	parsed := 0
	ini := strings.HasSuffix(dest, ".ini")

	for _, src := range t.Sources {
		if schema.IsINIDocument(src.Path) {
			ini = true
		}

		data, err := afero.ReadFile(p.fs, src.Path)
		if err != nil {
			slog.Error("skipping unreadable source",
				slog.String("path", src.Path),
				slog.Any("error", err))

			continue
		}

		nodes, err := schema.ParseNodes(data)
		if err != nil {
			slog.Error("skipping unparseable source",
				slog.String("path", src.Path),
				slog.Any("error", err))

			continue
		}

		if errs := schema.Validate(nodes, schema.IsINIDocument(src.Path)); len(errs) > 0 {
			for _, verr := range errs {
				slog.Error("schema violation",
					slog.String("path", src.Path),
					slog.String("detail", verr.Error()))
			}

			return fmt.Errorf("%w: %s", ErrValidation, src.Path)
		}

		merged = schema.MergeNodes(merged, nodes)
		parsed++
	}

	if parsed == 0 {
		slog.Warn("no usable sources for destination", slog.String("dest", dest))

		return nil
	}

	schema.SubstituteDefaults(merged, p.opts.Env)

	var lines []string

	if ini {
		lines = render.INI(merged, p.opts.Render)
	} else {
		var err error

		lines, err = render.YAML(merged, p.opts.Render)
		if err != nil {
			return err
		}
	}

	return p.write(dest, []byte(render.Text(lines)))
}

// copyRaw produces a destination from its final raw template, expanding
// ${VAR} placeholders in the content.
func (p *Pipeline) copyRaw(src Source, dest string) error {
	data, err := afero.ReadFile(p.fs, src.Path)
	if err != nil {
		return fmt.Errorf("reading raw template %q: %w", src.Path, err)
	}

	return p.write(dest, []byte(schema.SubstituteContent(string(data), p.opts.Env)))
}

// write creates the destination's directory on demand and writes the file,
// unless the output already exists; an existing file is kept and the skip
// is warned about.
func (p *Pipeline) write(dest string, data []byte) error {
	path := dest
	if p.opts.OutputDir != "" {
		path = filepath.Join(p.opts.OutputDir, dest)
	}

	exists, err := afero.Exists(p.fs, path)
	if err != nil {
		return fmt.Errorf("probing output %q: %w", path, err)
	}

	if exists {
		slog.Warn("output exists, skipping", slog.String("path", path))

		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		err = p.fs.MkdirAll(dir, 0o755)
		if err != nil {
			return fmt.Errorf("creating output directory %q: %w", dir, err)
		}
	}

	err = afero.WriteFile(p.fs, path, data, 0o644)
	if err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}

	slog.Info("wrote output", slog.String("path", path))

	return nil
}
