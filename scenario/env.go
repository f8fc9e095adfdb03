package scenario

import (
	"fmt"
	"os"
	"strings"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// Env is a snapshot of environment variables. A key that is present with
// an empty value is distinct from an absent key.
type Env map[string]string

// EnvFromOS captures the current process environment.
func EnvFromOS() Env {
	environ := os.Environ()
	env := make(Env, len(environ))

	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}

		env[k] = v
	}

	return env
}

// ReadEnvFile parses a dotenv file into an [Env].
func ReadEnvFile(fs afero.Fs, path string) (Env, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening env file: %w", err)
	}
	defer f.Close()

	m, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing env file %q: %w", path, err)
	}

	return Env(m), nil
}

// Merge returns a copy of e overlaid with other. Keys in other win, and a
// key set to the empty string still wins over a non-empty value in e.
func (e Env) Merge(other Env) (Env, error) {
	merged := make(Env, len(e)+len(other))

	if err := mergo.Merge(&merged, e, mergo.WithOverwriteWithEmptyValue); err != nil {
		return nil, fmt.Errorf("merging environments: %w", err)
	}

	if err := mergo.Merge(&merged, other, mergo.WithOverwriteWithEmptyValue); err != nil {
		return nil, fmt.Errorf("merging environments: %w", err)
	}

	return merged, nil
}
