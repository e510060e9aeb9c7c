// Package validation implements field-level validation for the auth forms.
//
// Validators are pure: the same (field, value) always yields the same
// verdict. A verdict is either nil (ok) or a *FieldError whose Kind is one of
// ErrRequired, ErrFormat or ErrTooShort, so callers can branch with errors.Is.
//
// Two rule sets exist because the login and register forms word the password
// length message differently: LoginRules and RegisterRules.
//
// Form layers touched/error bookkeeping on top of a rule set. "Touched" is
// monotonic, and an error is only recorded for touched fields, so a field that
// the user has not visited yet never shows a message until submit.
package validation
