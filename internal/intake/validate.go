package intake

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError is a validation failure for one field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Errors collects every failure on a step.
type Errors []FieldError

func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// For returns the message for name, if any.
func (es Errors) For(name string) string {
	for _, e := range es {
		if e.Field == name {
			return e.Message
		}
	}
	return ""
}

// Value returns the draft value for f, falling back to its default.
func Value(values map[string]string, f Field) string {
	if v, ok := values[f.Name]; ok {
		return strings.TrimSpace(v)
	}
	return f.Default
}

// ValidateStep checks every field on step i. It returns nil or Errors.
func ValidateStep(i int, values map[string]string) error {
	if i < 0 || i >= len(Steps) {
		return fmt.Errorf("no such step %d", i)
	}
	var errs Errors
	for _, f := range Steps[i].Fields {
		if msg := checkField(f, values); msg != "" {
			errs = append(errs, FieldError{Field: f.Name, Message: msg})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateAll checks every step and returns the first failing step index
// with its errors, or -1 and nil.
func ValidateAll(values map[string]string) (int, error) {
	for i := range Steps {
		if err := ValidateStep(i, values); err != nil {
			return i, err
		}
	}
	return -1, nil
}

func checkField(f Field, values map[string]string) string {
	v := Value(values, f)

	required := f.Required || (f.RequiredWhen != nil && conditionMet(*f.RequiredWhen, values))
	if v == "" {
		if required {
			if f.Message != "" && f.RequiredWhen != nil {
				return f.Message
			}
			return f.Label + " is required"
		}
		return ""
	}

	switch f.Kind {
	case KindNumber:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f.Label + " must be a number"
		}
		if f.Rule != "" && validate.Var(n, f.Rule) != nil {
			return messageOr(f, "is out of range")
		}
		return ""
	case KindChoice:
		if len(f.Choices) > 0 && !slices.Contains(f.Choices, v) {
			return fmt.Sprintf("%s must be one of: %s", f.Label, strings.Join(f.Choices, ", "))
		}
	case KindMulti:
		for _, item := range SplitMulti(v) {
			if len(f.Choices) > 0 && !slices.Contains(f.Choices, item) {
				return fmt.Sprintf("%s: unknown choice %q", f.Label, item)
			}
		}
	}

	if f.Rule != "" && validate.Var(v, f.Rule) != nil {
		return messageOr(f, "is invalid")
	}
	return ""
}

func messageOr(f Field, suffix string) string {
	if f.Message != "" {
		return f.Message
	}
	return f.Label + " " + suffix
}

func conditionMet(c Condition, values map[string]string) bool {
	other, _ := FieldByName(c.Field)
	v := Value(values, other)
	if other.Kind == KindMulti {
		return slices.Contains(SplitMulti(v), c.Value)
	}
	return v == c.Value
}

// SplitMulti parses a comma separated multi-choice value.
func SplitMulti(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
