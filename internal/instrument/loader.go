package instrument

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileBank mirrors Instrument with a scale shorthand: "likert" fills
// questions that declare no options with the 1..5 agreement scale.
type fileBank struct {
	Instrument `yaml:",inline"`
	Scale      string `yaml:"scale,omitempty"`
}

// Parse decodes a single bank from YAML.
func Parse(r io.Reader) (*Instrument, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fb fileBank
	if err := dec.Decode(&fb); err != nil {
		return nil, fmt.Errorf("failed to decode instrument: %w", err)
	}

	in := fb.Instrument
	switch fb.Scale {
	case "", "options":
	case "likert":
		for i := range in.Questions {
			if len(in.Questions[i].Options) == 0 {
				in.Questions[i].Options = Likert
			}
		}
	default:
		return nil, fmt.Errorf("instrument %s: unknown scale %q", in.Name, fb.Scale)
	}

	if in.Test == "" {
		in.Test = strings.ReplaceAll(in.Name, "-", "_")
	}
	if in.Title == "" {
		in.Title = in.Name
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &in, nil
}

// LoadFile reads a bank from path.
func LoadFile(path string) (*Instrument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read instrument file: %w", err)
	}
	in, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return in, nil
}

// LoadDir reads every *.yaml and *.yml bank in dir, sorted by file name.
// A missing directory yields no banks.
func LoadDir(dir string) ([]*Instrument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read instrument dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]*Instrument, 0, len(names))
	for _, name := range names {
		in, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}
