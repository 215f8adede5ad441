package definition

import (
	"github.com/mark3labs/stepr/internal/form"
	"github.com/mark3labs/stepr/internal/stepper"
)

// Page pairs a built step with its input field and body text.
type Page struct {
	Step  *stepper.Step
	Field *form.Field
	Body  string
}

// Built is a stepper built from a definition, not yet initialized.
type Built struct {
	Wizard  *Wizard
	Stepper *stepper.Stepper
	Pages   []Page
}

// Build creates a stepper with one step per definition step. Options are
// applied after the definition's own settings so callers can override them.
// The caller runs Init once it has finished configuring the stepper.
func (w *Wizard) Build(opts ...stepper.Option) (*Built, error) {
	base := []stepper.Option{
		stepper.WithLinear(w.IsLinear()),
		stepper.WithOrientation(stepper.ParseOrientation(w.Orientation)),
		stepper.WithSelectedIndex(w.Start),
	}
	s := stepper.New(append(base, opts...)...)

	b := &Built{Wizard: w, Stepper: s}
	steps := make([]*stepper.Step, 0, len(w.Steps))
	for _, def := range w.Steps {
		stepOpts := []stepper.StepOption{
			stepper.WithID(def.ID),
			stepper.WithLabel(def.Label),
			stepper.WithOptional(def.Optional),
			stepper.WithErrorMessage(def.ErrorMessage),
		}
		if def.Editable != nil {
			stepOpts = append(stepOpts, stepper.WithEditable(*def.Editable))
		}
		if def.Completed != nil {
			stepOpts = append(stepOpts, stepper.WithCompleted(*def.Completed))
		}
		if def.HasError != nil {
			stepOpts = append(stepOpts, stepper.WithHasError(*def.HasError))
		}
		if def.State != "" {
			stepOpts = append(stepOpts, stepper.WithState(stepper.StepState(def.State)))
		}

		var field *form.Field
		if def.Field != nil {
			f, err := def.Field.build()
			if err != nil {
				return nil, err
			}
			field = f
			stepOpts = append(stepOpts, stepper.WithControl(field))
		}

		st := stepper.NewStep(s, stepOpts...)
		steps = append(steps, st)
		b.Pages = append(b.Pages, Page{Step: st, Field: field, Body: def.Body})
	}
	s.SetSteps(steps...)
	return b, nil
}

// Page returns the page for a step ID.
func (b *Built) Page(id string) (Page, bool) {
	for _, p := range b.Pages {
		if p.Step.ID() == id {
			return p, true
		}
	}
	return Page{}, false
}

func (f *Field) build() (*form.Field, error) {
	var validators []form.Validator
	if f.Required {
		validators = append(validators, form.Required())
	}
	if f.Pattern != "" {
		v, err := form.Pattern(f.Pattern)
		if err != nil {
			return nil, err
		}
		validators = append(validators, v)
	}
	if f.Min > 0 {
		validators = append(validators, form.MinLength(f.Min))
	}
	if f.Max > 0 {
		validators = append(validators, form.MaxLength(f.Max))
	}
	if len(f.Choices) > 0 {
		validators = append(validators, form.OneOf(f.Choices...))
	}

	opts := []form.Option{
		form.WithInitial(f.Default),
		form.WithValidators(validators...),
	}
	if f.MustExist {
		opts = append(opts, form.WithAsync(form.PathExists()))
	}
	return form.New(f.Name, opts...), nil
}
