package classifier

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/industriverse/industriverse-sub012/domain/core"
	"github.com/industriverse/industriverse-sub012/domain/physics"
)

// templateFile is the on-disk shape of a template table. Centres and weights
// are keyed by feature name so a file never depends on positional order.
type templateFile struct {
	Version     string              `yaml:"version"`
	Temperature float64             `yaml:"temperature"`
	Weights     map[string]float64  `yaml:"weights,omitempty"`
	Templates   []templateFileEntry `yaml:"templates"`
}

type templateFileEntry struct {
	Domain  string             `yaml:"domain"`
	Center  map[string]float64 `yaml:"center"`
	Weights map[string]float64 `yaml:"weights,omitempty"`
}

// LoadTemplates reads a YAML template table from path
func LoadTemplates(path string) (TemplateSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return TemplateSet{}, fmt.Errorf("open templates: %w", err)
	}
	defer f.Close()
	return DecodeTemplates(f)
}

// DecodeTemplates parses a YAML template table. Every domain must appear
// exactly once and every feature must have a centre. Weights come from the
// entry, then the file-level default; a table with neither is rejected.
func DecodeTemplates(r io.Reader) (TemplateSet, error) {
	var file templateFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return TemplateSet{}, core.NewTemplateError("decode: " + err.Error())
	}

	set := TemplateSet{
		Version:     file.Version,
		Temperature: file.Temperature,
	}
	if set.Version == "" {
		return TemplateSet{}, core.NewTemplateError("version is required")
	}
	if set.Temperature == 0 {
		set.Temperature = DefaultTemperature
	}

	var seen [physics.DomainCount]bool
	for _, entry := range file.Templates {
		d, err := physics.ParseDomainID(entry.Domain)
		if err != nil {
			return TemplateSet{}, core.NewTemplateError(err.Error())
		}
		if seen[d] {
			return TemplateSet{}, core.NewTemplateError("duplicate domain " + d.String())
		}
		seen[d] = true

		center, err := featureArray(entry.Center, true)
		if err != nil {
			return TemplateSet{}, core.NewTemplateError(d.String() + " centre: " + err.Error())
		}
		weightsSrc := entry.Weights
		if len(weightsSrc) == 0 {
			weightsSrc = file.Weights
		}
		if len(weightsSrc) == 0 {
			return TemplateSet{}, core.NewTemplateError(d.String() + ": no weights")
		}
		weights, err := featureArray(weightsSrc, false)
		if err != nil {
			return TemplateSet{}, core.NewTemplateError(d.String() + " weights: " + err.Error())
		}
		set.Templates[d] = Template{Domain: d, Center: center, Weights: weights}
	}
	for d, ok := range seen {
		if !ok {
			return TemplateSet{}, core.NewTemplateError("missing domain " + physics.DomainID(d).String())
		}
	}

	if err := set.Validate(); err != nil {
		return TemplateSet{}, err
	}
	return set, nil
}

// EncodeTemplates writes a template table in the format DecodeTemplates reads
func EncodeTemplates(w io.Writer, set TemplateSet) error {
	file := templateFile{
		Version:     set.Version,
		Temperature: set.Temperature,
	}
	for _, tpl := range set.Templates {
		file.Templates = append(file.Templates, templateFileEntry{
			Domain:  tpl.Domain.String(),
			Center:  featureMap(tpl.Center),
			Weights: featureMap(tpl.Weights),
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return err
	}
	return enc.Close()
}

func featureArray(m map[string]float64, strict bool) ([physics.FeatureCount]float64, error) {
	var out [physics.FeatureCount]float64
	index := make(map[string]int, physics.FeatureCount)
	for i, name := range physics.FeatureNames {
		index[name] = i
	}
	for name := range m {
		if _, ok := index[name]; !ok {
			return out, fmt.Errorf("unknown feature %q", name)
		}
	}
	for i, name := range physics.FeatureNames {
		v, ok := m[name]
		if !ok && strict {
			return out, fmt.Errorf("missing feature %q", name)
		}
		out[i] = v
	}
	return out, nil
}

func featureMap(a [physics.FeatureCount]float64) map[string]float64 {
	m := make(map[string]float64, physics.FeatureCount)
	for i, name := range physics.FeatureNames {
		m[name] = a[i]
	}
	return m
}
