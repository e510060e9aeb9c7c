package validation

import (
	"errors"
	"regexp"
	"unicode/utf16"
)

// Field names a form field. Values match the JSON names used by the Identity Service.
type Field string

const (
	FieldEmail     Field = "email"
	FieldPassword  Field = "password"
	FieldFirstName Field = "first_name"
	FieldLastName  Field = "last_name"
	FieldPhone     Field = "phone"
)

// MinPasswordLength is the minimum password length in UTF-16 code units,
// the unit browsers report for a string's length.
const MinPasswordLength = 8

var (
	ErrRequired = errors.New("required")
	ErrFormat   = errors.New("invalid format")
	ErrTooShort = errors.New("too short")
)

// notSpaceOrAt excludes '@' and every code point ECMAScript treats as
// whitespace. Go's \s is ASCII only.
const notSpaceOrAt = `[^@\t\n\v\f\r \x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`

var (
	emailPattern = regexp.MustCompile(`^` + notSpaceOrAt + `+@` + notSpaceOrAt + `+\.` + notSpaceOrAt + `+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)
)

// FieldError is a failed verdict for one field.
type FieldError struct {
	Field   Field
	Kind    error
	Message string
}

func (e *FieldError) Error() string {
	return string(e.Field) + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// Rule validates a single raw value.
type Rule func(value string) error

// Rules is an ordered rule set: field order is the order in which fields are
// presented and reported.
type Rules struct {
	fields []Field
	rules  map[Field]Rule
}

// Fields returns the fields covered by the rule set, in order.
func (r Rules) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Validate runs the rule for field. Unknown fields always pass.
func (r Rules) Validate(field Field, value string) error {
	rule, ok := r.rules[field]
	if !ok {
		return nil
	}
	if err := rule(value); err != nil {
		return &FieldError{Field: field, Kind: errors.Unwrap(err), Message: err.Error()}
	}
	return nil
}

type fieldRule struct {
	field Field
	rule  Rule
}

func newRules(entries ...fieldRule) Rules {
	r := Rules{rules: make(map[Field]Rule, len(entries))}
	for _, e := range entries {
		r.fields = append(r.fields, e.field)
		r.rules[e.field] = e.rule
	}
	return r
}

// ruleError carries the user-facing message and wraps the kind sentinel.
type ruleError struct {
	kind error
	msg  string
}

func (e ruleError) Error() string { return e.msg }
func (e ruleError) Unwrap() error { return e.kind }

func fail(kind error, msg string) error { return ruleError{kind: kind, msg: msg} }

func required(msg string) Rule {
	return func(v string) error {
		if v == "" {
			return fail(ErrRequired, msg)
		}
		return nil
	}
}

func email(v string) error {
	if v == "" {
		return fail(ErrRequired, "Email is required")
	}
	if !emailPattern.MatchString(v) {
		return fail(ErrFormat, "Invalid email format")
	}
	return nil
}

func password(tooShort string) Rule {
	return func(v string) error {
		if v == "" {
			return fail(ErrRequired, "Password is required")
		}
		if textLength(v) < MinPasswordLength {
			return fail(ErrTooShort, tooShort)
		}
		return nil
	}
}

// phone is optional: empty is always valid.
func phone(v string) error {
	if v == "" {
		return nil
	}
	if !phonePattern.MatchString(v) {
		return fail(ErrFormat, "Enter valid mobile number (10-15 digits)")
	}
	return nil
}

var (
	// LoginRules covers the login form.
	LoginRules = newRules(
		fieldRule{FieldEmail, email},
		fieldRule{FieldPassword, password("Password must be at least 8 characters")},
	)

	// RegisterRules covers the register form.
	RegisterRules = newRules(
		fieldRule{FieldFirstName, required("First name is required")},
		fieldRule{FieldLastName, required("Last name is required")},
		fieldRule{FieldEmail, email},
		fieldRule{FieldPhone, phone},
		fieldRule{FieldPassword, password("Minimum 8 characters required")},
	)
)

// Validate checks value against the register rule set, which is a superset
// of the login fields. Use LoginRules.Validate for login wording.
func Validate(field Field, value string) error {
	return RegisterRules.Validate(field, value)
}

// textLength counts UTF-16 code units, so a character outside the Basic
// Multilingual Plane counts as two.
func textLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}
