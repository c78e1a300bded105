package intake

// Form walks the steps over a mutable draft. The draft map is shared with
// the caller so session persistence sees every edit.
type Form struct {
	Step   int
	Values map[string]string
}

// NewForm resumes a form at step over values.
func NewForm(step int, values map[string]string) *Form {
	if values == nil {
		values = make(map[string]string)
	}
	if step < 0 || step >= len(Steps) {
		step = 0
	}
	return &Form{Step: step, Values: values}
}

// Current returns the active step definition.
func (f *Form) Current() Step {
	return Steps[f.Step]
}

// Set records a value.
func (f *Form) Set(name, value string) {
	f.Values[name] = value
}

// Next validates the active step and advances. It reports whether the
// form is now complete (the last step passed validation).
func (f *Form) Next() (done bool, err error) {
	if err := ValidateStep(f.Step, f.Values); err != nil {
		return false, err
	}
	if f.Step == len(Steps)-1 {
		return true, nil
	}
	f.Step++
	return false, nil
}

// Back moves to the previous step without validating.
func (f *Form) Back() {
	if f.Step > 0 {
		f.Step--
	}
}

// Last reports whether the active step is the final one.
func (f *Form) Last() bool {
	return f.Step == len(Steps)-1
}
