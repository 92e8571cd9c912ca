package form

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/guard/core/logger"
	"github.com/dmitrymomot/guard/core/sanitizer"
	"github.com/dmitrymomot/guard/core/validator"
	"github.com/dmitrymomot/guard/pkg/ratelimiter"
)

// FieldState is the current state of one field. An empty Error means valid.
type FieldState struct {
	Value   string
	Error   string
	Touched bool
}

// SubmitFunc receives the sanitized field values on a successful submit.
// A returned error becomes the form's submission error.
type SubmitFunc func(ctx context.Context, values map[string]string) error

// Binding is what a UI needs to render and drive one field.
type Binding struct {
	Value   string
	Error   string
	Invalid bool
	// OnChange sets the field value.
	OnChange func(value string)
	// OnBlur marks the field touched.
	OnBlur func()
}

// Form holds field state and runs the gated submission flow. The set of
// fields is fixed at construction. A Form is safe for concurrent use, but
// concurrent Submit calls are not serialized: each runs its own
// rate-limit, validation and callback sequence.
type Form struct {
	mu         sync.Mutex
	names      []string
	initial    map[string]string
	rules      map[string]validator.Rule
	fields     map[string]*FieldState
	submitErr  string
	submitting int

	submit   SubmitFunc
	limiter  *ratelimiter.Limiter
	limitKey string
	limit    ratelimiter.Limit
	logger   *slog.Logger
}

// New creates a form. The field set is the union of the keys of initial and
// rules; fields without an initial value start empty. Both maps are copied.
func New(initial map[string]string, rules map[string]validator.Rule, submit SubmitFunc, opts ...Option) *Form {
	f := &Form{
		initial: make(map[string]string),
		rules:   maps.Clone(rules),
		fields:  make(map[string]*FieldState),
		submit:  submit,
		logger:  logger.Nop(),
	}
	if f.rules == nil {
		f.rules = make(map[string]validator.Rule)
	}

	for name := range rules {
		f.initial[name] = ""
	}
	maps.Copy(f.initial, initial)

	f.names = slices.Sorted(maps.Keys(f.initial))
	for _, name := range f.names {
		f.fields[name] = &FieldState{Value: f.initial[name]}
	}

	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Names returns the field names in sorted order.
func (f *Form) Names() []string {
	return slices.Clone(f.names)
}

// SetValue sanitizes raw, stores it and re-validates that field only.
// Search fields are stripped with SearchTerm, all others escaped with Markup.
// Unknown fields are ignored. Touched is not changed.
func (f *Form) SetValue(name, raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	field, ok := f.fields[name]
	if !ok {
		f.logger.Debug("set value for unknown field", logger.Field(name))
		return
	}

	rule := f.rules[name]
	if rule.Type == validator.TypeSearch {
		field.Value = sanitizer.SearchTerm(raw)
	} else {
		field.Value = sanitizer.Markup(raw)
	}
	field.Error = validator.ValidateField(name, field.Value, rule)
}

// SetTouched marks a field touched without changing its value or error.
func (f *Form) SetTouched(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if field, ok := f.fields[name]; ok {
		field.Touched = true
	}
}

// ValidateAll re-validates every field, marks all of them touched and
// reports whether all are valid.
func (f *Form) ValidateAll() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.validateAllLocked()
}

func (f *Form) validateAllLocked() bool {
	valid := true
	for _, name := range f.names {
		field := f.fields[name]
		field.Error = validator.ValidateField(name, field.Value, f.rules[name])
		field.Touched = true
		if field.Error != "" {
			valid = false
		}
	}
	return valid
}

// Submit runs the submission flow: rate limit, validation, then the callback
// with the current sanitized values. It reports whether the callback ran and
// succeeded. Callback errors and panics become the submission error.
func (f *Form) Submit(ctx context.Context) bool {
	f.mu.Lock()
	f.submitting++
	f.submitErr = ""
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting--
		f.mu.Unlock()
	}()

	if f.limiter != nil && !f.limiter.AllowLimit(f.limitKey, f.limit) {
		f.logger.DebugContext(ctx, "form submit throttled", logger.LimitKey(f.limitKey))
		f.setSubmitError(MsgTooManyAttempts)
		return false
	}

	f.mu.Lock()
	valid := f.validateAllLocked()
	values := f.valuesLocked()
	f.mu.Unlock()

	if !valid {
		return false
	}

	if err := f.call(ctx, values); err != nil {
		f.logger.WarnContext(ctx, "form submit failed", logger.Error(err))
		f.setSubmitError(err.Error())
		return false
	}
	return true
}

func (f *Form) call(ctx context.Context, values map[string]string) (err error) {
	if f.submit == nil {
		return ErrNoCallback
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSubmitPanic, r)
		}
	}()
	return f.submit(ctx, values)
}

func (f *Form) setSubmitError(msg string) {
	f.mu.Lock()
	f.submitErr = msg
	f.mu.Unlock()
}

// Reset restores construction-time values and clears errors, touched flags
// and the submission error.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, name := range f.names {
		*f.fields[name] = FieldState{Value: f.initial[name]}
	}
	f.submitErr = ""
}

// Field returns the UI binding for name. Unknown names yield an inert binding.
func (f *Form) Field(name string) Binding {
	state, _ := f.State(name)
	return Binding{
		Value:    state.Value,
		Error:    state.Error,
		Invalid:  state.Touched && state.Error != "",
		OnChange: func(v string) { f.SetValue(name, v) },
		OnBlur:   func() { f.SetTouched(name) },
	}
}

// State returns a copy of the field state.
func (f *Form) State(name string) (FieldState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	field, ok := f.fields[name]
	if !ok {
		return FieldState{}, false
	}
	return *field, true
}

// Values returns the current field values.
func (f *Form) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.valuesLocked()
}

func (f *Form) valuesLocked() map[string]string {
	out := make(map[string]string, len(f.fields))
	for name, field := range f.fields {
		out[name] = field.Value
	}
	return out
}

// Errors returns the fields that currently have an error.
func (f *Form) Errors() validator.ValidationErrors {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs validator.ValidationErrors
	for _, name := range f.names {
		if msg := f.fields[name].Error; msg != "" {
			errs.Add(validator.ValidationError{Field: name, Message: msg})
		}
	}
	return errs
}

// IsValid reports whether no field currently has an error. It does not
// re-validate.
func (f *Form) IsValid() bool {
	return f.Errors().IsEmpty()
}

// RetryAfter returns how long until the rate limiter admits another submit,
// or zero when there is no limiter or a submit would be allowed now.
func (f *Form) RetryAfter() time.Duration {
	if f.limiter == nil {
		return 0
	}
	return f.limiter.RetryAfter(f.limitKey, f.limit)
}

// IsSubmitting reports whether a Submit call is in flight.
func (f *Form) IsSubmitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting > 0
}

// SubmitError returns the message from the last failed submit, or "".
func (f *Form) SubmitError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitErr
}
