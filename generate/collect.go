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

// Source types. Schema documents merge; raw templates copy with content
// substitution.
const (
	TypeJSON = "json"
	TypeRaw  = "raw"
)

// Source is one overlay file contributing to a destination.
type Source struct {
	Path     string
	Type     string
	Scenario string
}

// Target is a destination path template with its contributing sources in
// scenario application order: base first, highest-precedence last.
type Target struct {
	Dest    string
	Sources []Source
}

// Collect walks each active scenario root in application order and groups
// every regular file by its destination template. Dotfiles are skipped.
// Scenario paths may carry {VAR} placeholders; a root that does not exist
// is warned about and skipped so a partially materialized overlay set does
// not abort the run.
func Collect(fsys afero.Fs, scenarios []scenario.Scenario, env scenario.Env) ([]Target, error) {
	byDest := make(map[string]int)

	var targets []Target

	for _, sc := range scenarios {
		root := filepath.Clean(schema.SubstitutePath(sc.Path, env))

		ok, err := afero.DirExists(fsys, root)
		if err != nil {
			return nil, fmt.Errorf("probing scenario root %q: %w", root, err)
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

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return fmt.Errorf("relativizing %q: %w", path, err)
			}

			dest, typ := classify(filepath.ToSlash(rel))

			i, seen := byDest[dest]
			if !seen {
				i = len(targets)
				byDest[dest] = i
				targets = append(targets, Target{Dest: dest})
			}

			targets[i].Sources = append(targets[i].Sources, Source{
				Path:     path,
				Type:     typ,
				Scenario: sc.Value,
			})

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking scenario root %q: %w", root, err)
		}
	}

	return targets, nil
}

// classify maps a relative source path to its destination and source type.
// Only the two schema suffixes are interpreted; anything else, including
// plain *.json, is a raw template. Both suffixes drop only the trailing
// ".json": foo.yml.json writes foo.yml and bar.ini.json writes bar.ini.
func classify(rel string) (string, string) {
	if strings.HasSuffix(rel, ".yml.json") || strings.HasSuffix(rel, ".ini.json") {
		return strings.TrimSuffix(rel, ".json"), TypeJSON
	}

	return rel, TypeRaw
}
