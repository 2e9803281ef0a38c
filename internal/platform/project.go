package platform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the content of questvault.yaml.
type ProjectFile struct {
	Adapter    string `yaml:"adapter"`
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	Taxonomy   string `yaml:"taxonomy"`
	BatchSize  int    `yaml:"batch_size"`
	PaceEvery  int    `yaml:"pace_every"`
	PaceDelay  string `yaml:"pace_delay"`
	Versioning *bool  `yaml:"versioning"`
	Strict     bool   `yaml:"strict"`

	// dir is the directory holding the file; relative paths resolve against it.
	dir string
}

// LoadProjectFile reads questvault.yaml from dir. A missing file yields an
// empty ProjectFile and no error.
func LoadProjectFile(dir string) (*ProjectFile, error) {
	p := &ProjectFile{dir: dir}

	data, err := os.ReadFile(filepath.Join(dir, ProjectFileName))
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ProjectFileName, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid %s: %w", ProjectFileName, err)
	}
	if _, err := p.pacing(); err != nil {
		return nil, err
	}
	return p, nil
}

// VaultPath returns the configured store location resolved against the
// project directory, or the project directory itself.
func (p *ProjectFile) VaultPath() string {
	return p.resolve(p.Path)
}

// TaxonomyPath returns the configured taxonomy file, or "".
func (p *ProjectFile) TaxonomyPath() string {
	if p.Taxonomy == "" {
		return ""
	}
	return p.resolve(p.Taxonomy)
}

func (p *ProjectFile) resolve(path string) string {
	if path == "" {
		return p.dir
	}
	if filepath.IsAbs(path) || p.dir == "" {
		return path
	}
	return filepath.Join(p.dir, path)
}

func (p *ProjectFile) pacing() (time.Duration, error) {
	if p.PaceDelay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.PaceDelay)
	if err != nil {
		return 0, fmt.Errorf("invalid pace_delay %q: %w", p.PaceDelay, err)
	}
	return d, nil
}

// Options converts the file into options. Options given later override them.
func (p *ProjectFile) Options() []Option {
	var opts []Option
	if p.Adapter != "" {
		opts = append(opts, WithAdapter(p.Adapter))
	}
	if t := p.TaxonomyPath(); t != "" {
		opts = append(opts, WithTaxonomyFile(t))
	}
	if p.BatchSize > 0 {
		opts = append(opts, WithBatchSize(p.BatchSize))
	}
	if delay, _ := p.pacing(); p.PaceEvery > 0 || delay > 0 {
		opts = append(opts, WithPacing(p.PaceEvery, delay))
	}
	if p.Versioning != nil {
		opts = append(opts, WithVersioning(*p.Versioning))
	}
	if p.Strict {
		opts = append(opts, WithStrict(true))
	}
	return opts
}
