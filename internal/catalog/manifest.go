package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest describes where reviews and PDFs for each venue live.
type Manifest struct {
	Sources []Source `yaml:"sources"`
}

type Source struct {
	Name     string    `yaml:"name"`
	PDFDir   string    `yaml:"pdf_dir"`
	Variants []Variant `yaml:"variants"`
}

type Variant struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// DefaultManifest matches the layout the evaluation data ships with.
func DefaultManifest() *Manifest {
	return &Manifest{Sources: []Source{
		{
			Name:   "COLM",
			PDFDir: "pdfs_colm",
			Variants: []Variant{
				{Name: "5_3", File: "data_colm/inference_new_papers_5_3.json"},
				{Name: "5_5", File: "data_colm/inference_new_papers_5_5.json"},
			},
		},
		{
			Name:   "NeurIPS",
			PDFDir: "pdfs_neurips",
			Variants: []Variant{
				{Name: "5_3", File: "data_neurips/inference_new_papers_5_3.json"},
				{Name: "5_5", File: "data_neurips/inference_new_papers_5_5.json"},
			},
		},
	}}
}

// LoadManifest reads path, falling back to DefaultManifest when the file does
// not exist. Relative paths in the manifest are resolved against baseDir.
func LoadManifest(path, baseDir string) (*Manifest, error) {
	m := DefaultManifest()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	default:
		m = &Manifest{}
		if err := yaml.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("failed to parse sources file %s: %w", path, err)
		}
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	m.resolve(baseDir)
	return m, nil
}

func (m *Manifest) validate() error {
	if len(m.Sources) == 0 {
		return errors.New("sources file lists no sources")
	}
	seen := make(map[string]bool)
	for _, s := range m.Sources {
		if s.Name == "" {
			return errors.New("source without a name")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate source %q", s.Name)
		}
		seen[s.Name] = true
		if len(s.Variants) == 0 {
			return fmt.Errorf("source %q has no variants", s.Name)
		}
		variants := make(map[string]bool)
		for _, v := range s.Variants {
			if v.Name == "" || v.File == "" {
				return fmt.Errorf("source %q has a variant without name or file", s.Name)
			}
			if variants[v.Name] {
				return fmt.Errorf("source %q lists variant %q twice", s.Name, v.Name)
			}
			variants[v.Name] = true
		}
	}
	return nil
}

func (m *Manifest) resolve(baseDir string) {
	for i := range m.Sources {
		s := &m.Sources[i]
		s.PDFDir = resolvePath(baseDir, s.PDFDir)
		for j := range s.Variants {
			s.Variants[j].File = resolvePath(baseDir, s.Variants[j].File)
		}
	}
}

func resolvePath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
