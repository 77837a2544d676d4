package model

import "fmt"

// Decorator adjusts a form layout before presenters use it, for example to
// change copy or placeholders. Decorators must not add or remove fields.
type Decorator interface {
	Decorate(*FormModel) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormModel) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(form *FormModel) error {
	return fn(form)
}

// Decorate applies decorators to a copy of form in order. A decorator that
// changes the field set is rejected.
func Decorate(form FormModel, decorators ...Decorator) (FormModel, error) {
	out := form.clone()
	for _, decorator := range decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(&out); err != nil {
			return form, fmt.Errorf("model: decorate: %w", err)
		}
	}
	if !sameFields(form, out) {
		return form, fmt.Errorf("model: decorate: field set changed")
	}
	return out, nil
}

func (m FormModel) clone() FormModel {
	out := m
	out.Sections = make([]Section, len(m.Sections))
	for i, section := range m.Sections {
		copied := section
		copied.Fields = make([]Field, len(section.Fields))
		for j, field := range section.Fields {
			field.Options = append([]Option(nil), field.Options...)
			copied.Fields[j] = field
		}
		out.Sections[i] = copied
	}
	return out
}

func sameFields(a, b FormModel) bool {
	names := func(m FormModel) []FieldName {
		var out []FieldName
		for _, section := range m.Sections {
			for _, field := range section.Fields {
				out = append(out, field.Name)
			}
		}
		return out
	}
	left, right := names(a), names(b)
	if len(left) != len(right) {
		return false
	}
	for i := range left {
		if left[i] != right[i] {
			return false
		}
	}
	return true
}
