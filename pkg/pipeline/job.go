package pipeline

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dmdpattern/pkg/dmd"
	"github.com/matzehuels/dmdpattern/pkg/errors"
)

// Output controls where and what a job writes.
type Output struct {
	Dir string `toml:"dir" json:"dir"`
	// Inspect writes an inspect_<name>.png panel for lattice patterns.
	Inspect bool `toml:"inspect" json:"inspect"`
	// Catalog records every saved pattern in <dir>/catalog.db.
	Catalog bool `toml:"catalog" json:"catalog"`
}

// Job is a batch of patterns rendered for one device.
//
// A job file is TOML:
//
//	[device]
//	rows = 1140
//	cols = 912
//	flip = true
//
//	[output]
//	dir = "patterns"
//
//	[[pattern]]
//	name = "spot.bmp"
//	kind = "circle"
//	radius = 40
//
// Omitted pattern parameters take the defaults of their kind.
type Job struct {
	Device   dmd.Geometry `toml:"device" json:"device"`
	Output   Output       `toml:"output" json:"output"`
	Patterns []Pattern    `toml:"-" json:"patterns"`
}

type jobFile struct {
	Device  dmd.Geometry     `toml:"device"`
	Output  Output           `toml:"output"`
	Pattern []toml.Primitive `toml:"pattern"`
}

type kindOnly struct {
	Kind string `toml:"kind"`
}

// LoadJob reads and validates a job file.
func LoadJob(path string) (*Job, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "job file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()

	job, err := DecodeJob(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return job, nil
}

// DecodeJob parses a TOML job. Every [[pattern]] table starts from
// DefaultPattern of its kind, so only the parameters that differ need to be
// written. Unknown keys are rejected.
func DecodeJob(r io.Reader) (*Job, error) {
	raw := jobFile{
		Device: dmd.DefaultGeometry,
		Output: Output{Dir: DefaultOutputDir},
	}
	md, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode job")
	}

	job := &Job{Device: raw.Device, Output: raw.Output}
	for i, prim := range raw.Pattern {
		var k kindOnly
		if err := md.PrimitiveDecode(prim, &k); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "pattern %d", i)
		}
		if k.Kind == "" {
			return nil, errors.New(errors.ErrCodeInvalidPattern, "pattern %d: missing kind", i)
		}
		p := DefaultPattern(k.Kind)
		if err := md.PrimitiveDecode(prim, &p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "pattern %d", i)
		}
		job.Patterns = append(job.Patterns, p)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown keys: %s", strings.Join(keys, ", "))
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// Validate checks the device, the output settings and every pattern.
// Pattern names must be unique because they become file names.
func (j *Job) Validate() error {
	if err := j.Device.Validate(); err != nil {
		return err
	}
	if j.Output.Dir == "" {
		j.Output.Dir = DefaultOutputDir
	}
	if len(j.Patterns) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "job has no patterns")
	}
	seen := make(map[string]bool, len(j.Patterns))
	for i := range j.Patterns {
		p := &j.Patterns[i]
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.Name] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate pattern name %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}
