package main

import (
	"fmt"
	"os"
	"path/filepath"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// manifestFile is the YAML form of a go-theme manifest.
type manifestFile struct {
	Name      string                 `yaml:"name"`
	Version   string                 `yaml:"version"`
	Tokens    map[string]string      `yaml:"tokens"`
	Templates map[string]string      `yaml:"templates"`
	Assets    assetsFile             `yaml:"assets"`
	Variants  map[string]variantFile `yaml:"variants"`
}

type assetsFile struct {
	Prefix string            `yaml:"prefix"`
	Dir    string            `yaml:"dir"`
	Files  map[string]string `yaml:"files"`
}

type variantFile struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    assetsFile        `yaml:"assets"`
}

// loadedManifest is a manifest plus where its files live on disk.
type loadedManifest struct {
	Manifest  *theme.Manifest
	Dir       string
	AssetsDir string
}

func loadManifest(path string) (*loadedManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("theme manifest: %w", err)
	}
	var doc manifestFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("theme manifest %s: %w", path, err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("theme manifest %s: name is required", path)
	}

	manifest := &theme.Manifest{
		Name:      doc.Name,
		Version:   doc.Version,
		Tokens:    doc.Tokens,
		Templates: doc.Templates,
		Assets:    theme.Assets{Prefix: doc.Assets.Prefix, Files: doc.Assets.Files},
	}
	if len(doc.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(doc.Variants))
		for name, variant := range doc.Variants {
			manifest.Variants[name] = theme.Variant{
				Tokens:    variant.Tokens,
				Templates: variant.Templates,
				Assets:    theme.Assets{Prefix: variant.Assets.Prefix, Files: variant.Assets.Files},
			}
		}
	}

	dir := filepath.Dir(path)
	assetsDir := dir
	if doc.Assets.Dir != "" {
		assetsDir = filepath.Join(dir, doc.Assets.Dir)
	}
	return &loadedManifest{Manifest: manifest, Dir: dir, AssetsDir: assetsDir}, nil
}
