package validation

// Values maps fields to raw input values.
type Values map[Field]string

// FieldState is the view state of one form field.
type FieldState struct {
	Value   string
	Touched bool
	Error   string
}

// Form tracks values, touched flags and errors for a rule set.
//
// Form is not safe for concurrent use; it belongs to a single form instance
// driven by one input loop.
type Form struct {
	rules  Rules
	states map[Field]*FieldState
}

// NewForm returns an empty, untouched form for rules.
func NewForm(rules Rules) *Form {
	f := &Form{rules: rules, states: make(map[Field]*FieldState)}
	for _, field := range rules.Fields() {
		f.states[field] = &FieldState{}
	}
	return f
}

// Rules returns the rule set the form validates against.
func (f *Form) Rules() Rules { return f.rules }

// Change records a new value. The field is re-validated only if it has
// already been touched, so typing into a fresh field shows no error.
func (f *Form) Change(field Field, value string) {
	st, ok := f.states[field]
	if !ok {
		return
	}
	st.Value = value
	if st.Touched {
		st.Error = message(f.rules.Validate(field, value))
	}
}

// Blur marks the field touched and validates its current value.
func (f *Form) Blur(field Field) {
	st, ok := f.states[field]
	if !ok {
		return
	}
	st.Touched = true
	st.Error = message(f.rules.Validate(field, st.Value))
}

// Set applies Change for every value in vs.
func (f *Form) Set(vs Values) {
	for _, field := range f.rules.Fields() {
		if v, ok := vs[field]; ok {
			f.Change(field, v)
		}
	}
}

// ValidateAll touches every field and records every error, so the user sees
// all problems at once. It returns false if any field fails.
func (f *Form) ValidateAll() bool {
	valid := true
	for _, field := range f.rules.Fields() {
		st := f.states[field]
		st.Touched = true
		st.Error = message(f.rules.Validate(field, st.Value))
		if st.Error != "" {
			valid = false
		}
	}
	return valid
}

// SetError marks field touched and overrides its error message.
func (f *Form) SetError(field Field, msg string) {
	st, ok := f.states[field]
	if !ok {
		return
	}
	st.Touched = true
	st.Error = msg
}

// Field returns a copy of the state of field.
func (f *Form) Field(field Field) FieldState {
	if st, ok := f.states[field]; ok {
		return *st
	}
	return FieldState{}
}

// Values returns a copy of all current values.
func (f *Form) Values() Values {
	out := make(Values, len(f.states))
	for field, st := range f.states {
		out[field] = st.Value
	}
	return out
}

// Errors returns the non-empty errors in field order.
func (f *Form) Errors() []*FieldError {
	var out []*FieldError
	for _, field := range f.rules.Fields() {
		st := f.states[field]
		if st.Error == "" {
			continue
		}
		out = append(out, &FieldError{Field: field, Message: st.Error})
	}
	return out
}

// Valid reports whether no field currently carries an error.
func (f *Form) Valid() bool {
	return len(f.Errors()) == 0
}

func message(err error) string {
	if err == nil {
		return ""
	}
	if fe, ok := err.(*FieldError); ok {
		return fe.Message
	}
	return err.Error()
}
