package session

import "github.com/mark3labs/stepr/internal/stepper"

// Status is a snapshot of a session.
type Status struct {
	Wizard        string       `json:"wizard"`
	SelectedIndex int          `json:"selected_index"`
	FocusIndex    int          `json:"focus_index"`
	Direction     string       `json:"direction"`
	Linear        bool         `json:"linear"`
	Orientation   string       `json:"orientation"`
	Steps         []StepStatus `json:"steps"`
}

// StepStatus is a snapshot of one step.
type StepStatus struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Label     string `json:"label"`
	Indicator string `json:"indicator"`
	Selected  bool   `json:"selected"`
	Navigable bool   `json:"navigable"`
	Completed bool   `json:"completed"`
	HasError  bool   `json:"has_error"`
	Optional  bool   `json:"optional"`
	Editable  bool   `json:"editable"`
	Field     string `json:"field,omitempty"`
	Value     string `json:"value,omitempty"`
	Error     string `json:"error,omitempty"`
	Pending   bool   `json:"pending,omitempty"`
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.built.Stepper
	out := Status{
		Wizard:        s.built.Wizard.Name,
		SelectedIndex: st.SelectedIndex(),
		FocusIndex:    st.FocusIndex(),
		Direction:     string(st.Direction()),
		Linear:        st.Linear(),
		Orientation:   string(st.Orientation()),
	}
	for _, p := range s.built.Pages {
		step := p.Step
		ss := StepStatus{
			Index:     step.Index(),
			ID:        step.ID(),
			Label:     step.Label(),
			Indicator: string(step.IndicatorType()),
			Selected:  step.IsSelected(),
			Navigable: step.IsNavigable(),
			Completed: step.Completed(),
			HasError:  step.HasError(),
			Optional:  step.Optional(),
			Editable:  step.Editable(),
		}
		if p.Field != nil {
			ss.Field = p.Field.Name()
			ss.Value = p.Field.Value()
			ss.Pending = p.Field.Pending()
			if err := p.Field.Err(); err != nil && step.Interacted() {
				ss.Error = err.Error()
			}
		}
		if ss.HasError && ss.Error == "" {
			ss.Error = step.ErrorMessage()
		}
		out.Steps = append(out.Steps, ss)
	}
	return out
}

// Indicator returns the indicator of the step at index, or "" when out of
// range.
func (s *Session) Indicator(index int) stepper.StepState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.built.Stepper.Step(index); st != nil {
		return st.IndicatorType()
	}
	return ""
}
