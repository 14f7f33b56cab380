// Package instance loads job collections from instance files.
//
// Two formats are understood. The text format is a whitespace separated list
// of integers: the job count n, optionally the column count 3, then n triples
// "r p q". Lines starting with '#' are comments:
//
//	# seven jobs
//	7 3
//	10 5 7
//	13 6 26
//	...
//
// The YAML format names the instance and lists the jobs:
//
//	name: example
//	jobs:
//	  - {r: 10, p: 5, q: 7}
//	  - {r: 13, p: 6, q: 26}
package instance

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wmbr/proc-opt/internal/shared"
	"github.com/wmbr/proc-opt/pkg/jobs"
)

// Format of an instance file.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// Instance is a named job collection.
type Instance struct {
	Name string
	Jobs jobs.JobList
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Load reads the instance stored at path. The instance is named after the
// file unless a YAML document names it.
func Load(path string) (Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = shared.MarkKind(err, shared.KindNotFound)
		}
		return Instance{}, shared.Wrapf(err, "load %s", path)
	}
	defer f.Close()

	base := filepath.Base(path)
	inst, err := Parse(f, strings.TrimSuffix(base, filepath.Ext(base)), FormatOf(path))
	if err != nil {
		return Instance{}, shared.Wrapf(err, "load %s", path)
	}
	return inst, nil
}

// Parse reads one instance in the given format.
func Parse(r io.Reader, name string, format Format) (Instance, error) {
	switch format {
	case FormatText:
		js, err := parseText(r)
		if err != nil {
			return Instance{}, err
		}
		return Instance{Name: name, Jobs: js}, nil
	case FormatYAML:
		inst, err := parseYAML(r)
		if err != nil {
			return Instance{}, err
		}
		if inst.Name == "" {
			inst.Name = name
		}
		return inst, nil
	default:
		return Instance{}, shared.Validationf("unknown instance format %q", format)
	}
}

func parseText(r io.Reader) (jobs.JobList, error) {
	// Lines have no length limit: a whole instance may sit on one line.
	var tokens []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line = strings.TrimSpace(line); !strings.HasPrefix(line, "#") {
			tokens = append(tokens, strings.Fields(line)...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, shared.MarkKind(shared.Wrap(err, "read instance"), shared.KindInternal)
		}
	}
	if len(tokens) == 0 {
		return nil, shared.Validationf("empty instance")
	}

	n, err := strconv.ParseUint(tokens[0], 10, 32)
	if err != nil {
		return nil, shared.Validationf("job count %q is not a non-negative integer", tokens[0])
	}
	rest := tokens[1:]
	if uint64(len(rest)) == 3*n+1 && rest[0] == "3" {
		rest = rest[1:]
	}
	if uint64(len(rest)) != 3*n {
		return nil, shared.Validationf("job count mismatch: header says %d jobs, found %d values", n, len(rest))
	}

	js := make(jobs.JobList, 0, n)
	for i := 0; i < len(rest); i += 3 {
		var v [3]uint32
		for k := range v {
			x, err := strconv.ParseUint(rest[i+k], 10, 32)
			if err != nil {
				return nil, shared.Validationf("job %d: %q is not a 32-bit non-negative integer", i/3+1, rest[i+k])
			}
			v[k] = uint32(x)
		}
		js = append(js, jobs.New(v[0], v[1], v[2]))
	}
	return js, nil
}

type document struct {
	Name string     `yaml:"name"`
	Jobs []jobs.Job `yaml:"jobs"`
}

func parseYAML(r io.Reader) (Instance, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Instance{}, shared.Validationf("empty instance")
		}
		return Instance{}, shared.MarkKind(fmt.Errorf("decode yaml: %w", err), shared.KindValidation)
	}
	return Instance{Name: doc.Name, Jobs: doc.Jobs}, nil
}
