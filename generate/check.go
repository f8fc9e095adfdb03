package generate

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/genconf/genconf/scenario"
	"github.com/genconf/genconf/schema"
)

// Check validates every schema document referenced by the config without
// writing anything: each *.yml.json and *.ini.json under each scenario
// path, active or not, is parsed and validated. Every violation is logged;
// the returned error carries the total count.
func Check(fsys afero.Fs, cfg *scenario.Config, env scenario.Env) error {
	failures := 0

	for _, sc := range cfg.Scenarios {
		root := filepath.Clean(schema.SubstitutePath(sc.Path, env))

		ok, err := afero.DirExists(fsys, root)
		if err != nil {
			return fmt.Errorf("probing scenario root %q: %w", root, err)
		}

		if !ok {
			slog.Warn("scenario root does not exist",
				slog.String("scenario", sc.Value),
				slog.String("path", root))

			continue
		}

		err = afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() || strings.HasPrefix(info.Name(), ".") {
				return nil
			}

			if !strings.HasSuffix(path, ".yml.json") && !schema.IsINIDocument(path) {
				return nil
			}

			nodes, err := schema.LoadNodes(fsys, path)
			if err != nil {
				slog.Error("unparseable schema document",
					slog.String("path", path),
					slog.Any("error", err))

				failures++

				return nil
			}

			errs := schema.Validate(nodes, schema.IsINIDocument(path))
			for _, verr := range errs {
				slog.Error("schema violation",
					slog.String("path", path),
					slog.String("detail", verr.Error()))
			}

			failures += len(errs)

			return nil
		})
		if err != nil {
			return fmt.Errorf("walking scenario root %q: %w", root, err)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%w: %d violations", ErrValidation, failures)
	}

	return nil
}
