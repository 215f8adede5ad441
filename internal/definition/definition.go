// Package definition loads wizard definitions from YAML and builds steppers
// from them.
package definition

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/gosimple/slug"
	"github.com/mark3labs/stepr/internal/form"
	"github.com/mark3labs/stepr/internal/hooks"
	"github.com/mark3labs/stepr/internal/logger"
	"gopkg.in/yaml.v3"
)

// Wizard is a parsed wizard definition.
type Wizard struct {
	Name        string      `yaml:"name"`
	Linear      *bool       `yaml:"linear,omitempty"`
	Orientation string      `yaml:"orientation,omitempty"`
	Start       int         `yaml:"start,omitempty"`
	Steps       []Step      `yaml:"steps"`
	Hooks       hooks.Hooks `yaml:"hooks,omitempty"`
}

// Step is one page of a wizard definition.
type Step struct {
	ID           string `yaml:"id,omitempty"`
	Label        string `yaml:"label"`
	Body         string `yaml:"body,omitempty"`
	Optional     bool   `yaml:"optional,omitempty"`
	Editable     *bool  `yaml:"editable,omitempty"`
	Completed    *bool  `yaml:"completed,omitempty"`
	HasError     *bool  `yaml:"has_error,omitempty"`
	ErrorMessage string `yaml:"error_message,omitempty"`
	State        string `yaml:"state,omitempty"`
	Field        *Field `yaml:"field,omitempty"`
}

// Field describes the input collected on a step.
type Field struct {
	Name      string   `yaml:"name"`
	Default   string   `yaml:"default,omitempty"`
	Required  bool     `yaml:"required,omitempty"`
	Pattern   string   `yaml:"pattern,omitempty"`
	Min       int      `yaml:"min,omitempty"`
	Max       int      `yaml:"max,omitempty"`
	Choices   []string `yaml:"choices,omitempty"`
	MustExist bool     `yaml:"must_exist,omitempty"`
}

// Load reads and validates the definition at path.
func Load(path string) (*Wizard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wizard definition: %w", err)
	}
	w, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("Loaded wizard %q from %s (%d steps)", w.Name, path, len(w.Steps))
	return w, nil
}

// Parse decodes and validates a YAML definition.
func Parse(data []byte) (*Wizard, error) {
	var w Wizard
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse wizard definition: %w", err)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// IsLinear reports whether the definition turns linear mode on. An unset
// value reads as false.
func (w *Wizard) IsLinear() bool {
	return w.Linear != nil && *w.Linear
}

// Slug returns the URL and subject safe wizard name.
func (w *Wizard) Slug() string {
	return slug.Make(w.Name)
}

// Validate checks the definition and assigns step IDs. IDs default to the
// slug of the label; duplicates get a numeric suffix.
func (w *Wizard) Validate() error {
	var errs []error
	if w.Name == "" {
		errs = append(errs, errors.New("wizard name cannot be empty"))
	} else if w.Slug() == "" {
		errs = append(errs, fmt.Errorf("wizard name %q has no usable characters", w.Name))
	}
	switch w.Orientation {
	case "", "horizontal", "vertical":
	default:
		errs = append(errs, fmt.Errorf("orientation must be horizontal or vertical, got %q", w.Orientation))
	}
	if len(w.Steps) == 0 {
		errs = append(errs, errors.New("wizard has no steps"))
	}
	if w.Start < 0 || (len(w.Steps) > 0 && w.Start >= len(w.Steps)) {
		errs = append(errs, fmt.Errorf("start %d is out of range", w.Start))
	}

	if err := w.Hooks.Validate(); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[string]int)
	for i := range w.Steps {
		st := &w.Steps[i]
		if err := st.validate(); err != nil {
			errs = append(errs, fmt.Errorf("step %d (%q): %w", i+1, st.Label, err))
			continue
		}

		base := st.ID
		if base == "" {
			base = slug.Make(st.Label)
		}
		if base == "" {
			base = "step"
		}
		id := base
		for n := 2; ; n++ {
			if _, dup := seen[id]; !dup {
				break
			}
			id = base + "-" + strconv.Itoa(n)
		}
		seen[id] = i
		st.ID = id
	}

	return errors.Join(errs...)
}

func (st *Step) validate() error {
	if st.Label == "" {
		return errors.New("label cannot be empty")
	}
	f := st.Field
	if f == nil {
		return nil
	}
	if f.Name == "" {
		return errors.New("field name cannot be empty")
	}
	if f.Min < 0 || f.Max < 0 {
		return errors.New("field min and max must be >= 0")
	}
	if f.Max > 0 && f.Min > f.Max {
		return fmt.Errorf("field min %d exceeds max %d", f.Min, f.Max)
	}
	if f.Pattern != "" {
		if _, err := form.Pattern(f.Pattern); err != nil {
			return err
		}
	}
	return nil
}
