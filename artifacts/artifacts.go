// Package artifacts finds the compiled contract files produced by scarb.
package artifacts

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var ErrArtifactsMissing = errors.New("artifacts missing")

var (
	sierraSuffixes = []string{".contract_class.json", "sierra.json"}
	casmSuffixes   = []string{".compiled_contract_class.json", "casm.json"}
)

type Paths struct {
	Sierra string
	Casm   string
}

// Locate returns the single Sierra and the single Casm artifact of contract
// under root. Both file names must start with the contract name.
func Locate(fsys afero.Fs, root, contract string, recursive bool) (*Paths, error) {
	var sierra, casm []string
	walk := func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}
			return nil
		}

		name := info.Name()
		if !strings.HasPrefix(name, contract) {
			return nil
		}
		// Casm first: ".compiled_contract_class.json" also ends in ".contract_class.json".
		switch {
		case hasAnySuffix(name, casmSuffixes):
			casm = append(casm, path)
		case hasAnySuffix(name, sierraSuffixes):
			sierra = append(sierra, path)
		}
		return nil
	}
	if err := afero.Walk(fsys, root, walk); err != nil {
		return nil, errors.Wrapf(err, "search artifacts of %s in %s", contract, root)
	}

	sierraPath, err := single("sierra", contract, sierra)
	if err != nil {
		return nil, err
	}
	casmPath, err := single("casm", contract, casm)
	if err != nil {
		return nil, err
	}
	return &Paths{Sierra: sierraPath, Casm: casmPath}, nil
}

// Read loads the files at paths.
func Read(fsys afero.Fs, paths *Paths) (sierra, casm []byte, err error) {
	if sierra, err = afero.ReadFile(fsys, paths.Sierra); err != nil {
		return nil, nil, errors.Wrap(err, "read sierra artifact")
	}
	if casm, err = afero.ReadFile(fsys, paths.Casm); err != nil {
		return nil, nil, errors.Wrap(err, "read casm artifact")
	}
	return sierra, casm, nil
}

func single(kind, contract string, matches []string) (string, error) {
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: no %s artifact found for %s", ErrArtifactsMissing, kind, contract)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %d %s artifacts found for %s: %s",
			ErrArtifactsMissing, len(matches), kind, contract, strings.Join(matches, ", "))
	}
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
