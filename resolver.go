package shellscript

import (
	"fmt"
	"time"
)

// Resolver resolves option values from command-line tokens and config files
// into a Store, following one Schema. Not safe for concurrent use.
type Resolver struct {
	schema     *Schema
	validators *Registry
	sink       Sink
	store      *Store
	strict     bool // Return an error for unknown options and rejected values (default: false)
	read       bool // Set once ParseArgs has run
	timers     map[string]*Timer
	now        func() time.Time
}

// NewResolver creates a Resolver with the built-in validators, an empty store,
// a discarding sink and permissive parsing. A nil schema means NewSchema().
func NewResolver(schema *Schema) *Resolver {
	if schema == nil {
		schema = NewSchema()
	}
	return &Resolver{
		schema:     schema,
		validators: NewRegistry(),
		sink:       NopSink{},
		store:      NewStore(),
		now:        time.Now,
	}
}

// WithValidators replaces the validator registry.
func (r *Resolver) WithValidators(reg *Registry) *Resolver {
	if reg != nil {
		r.validators = reg
	}
	return r
}

// WithSink sets the diagnostic sink.
func (r *Resolver) WithSink(s Sink) *Resolver {
	if s == nil {
		s = NopSink{}
	}
	r.sink = s
	return r
}

// WithStore replaces the default store. A *LogSink set with WithSink is
// rebound to st, so its verbosity gate follows the new store.
func (r *Resolver) WithStore(st *Store) *Resolver {
	if st == nil {
		return r
	}
	r.store = st
	if ls, ok := r.sink.(*LogSink); ok {
		ls.SetStore(st)
	}
	return r
}

// Strict controls whether unresolved tokens, unresolved config lines and
// rejected values are returned as a *ValidationError. Default: false.
// The store is populated the same way in both modes.
func (r *Resolver) Strict(strict bool) *Resolver {
	r.strict = strict
	return r
}

// Schema returns the schema the resolver matches against.
func (r *Resolver) Schema() *Schema { return r.schema }

// Store returns the default store.
func (r *Resolver) Store() *Store { return r.store }

// Validators returns the validator registry.
func (r *Resolver) Validators() *Registry { return r.validators }

// ConfigurationRead reports whether the command line has been processed.
func (r *Resolver) ConfigurationRead() bool { return r.read }

// Debug forwards a diagnostic message to the sink.
func (r *Resolver) Debug(message string, level int) {
	r.sink.Emit(message, level)
}

// ParseResult reports the outcome of one parser invocation.
type ParseResult struct {
	// Consumed is true when every token or line was matched or used as a value.
	Consumed bool

	// Applied counts the switch occurrences and values accepted into the store.
	Applied int

	// Rejections lists the values refused by their validators.
	Rejections []*RejectionError

	// Unresolved lists tokens or config lines that matched no option.
	Unresolved []string
}

// Finish completes a result: Consumed is set when nothing is unresolved, and in
// strict mode the unresolved entries and rejections are returned as a
// *ValidationError. Sources outside this package call it once they are done.
func (r *Resolver) Finish(res *ParseResult) error {
	res.Consumed = len(res.Unresolved) == 0
	return r.strictError(res)
}

// Apply validates raw against opt's validator and merges the accepted value
// into store (the resolver's store when nil). Every source goes through Apply.
//
// It returns true when the store was written. A rejection is returned as a
// *RejectionError and leaves the store untouched. An empty raw value is ignored.
func (r *Resolver) Apply(opt Option, raw, source string, store *Store) (bool, error) {
	if store == nil {
		store = r.store
	}
	if raw == "" {
		r.Debug(fmt.Sprintf("no value for %s, nothing stored", opt.Key), 2)
		return false, nil
	}

	if opt.Validator != "" {
		if _, ok := r.validators.Lookup(opt.Validator); !ok {
			r.Debug(fmt.Sprintf("validator %q is not registered", opt.Validator), 1)
		}
	}

	validate, err := r.validators.Resolve(opt.Validator)
	if err != nil {
		return false, r.reject(opt, raw, source, err)
	}

	accepted, err := validate(raw)
	if err != nil {
		return false, r.reject(opt, raw, source, err)
	}

	r.Debug(fmt.Sprintf("storing %q in %s", accepted, opt.Key), 2)
	store.MergeFrom(opt.Key, accepted, source)
	return true, nil
}

func (r *Resolver) reject(opt Option, raw, source string, err error) *RejectionError {
	rej := &RejectionError{
		Key:       opt.Key,
		Validator: opt.Validator,
		Value:     raw,
		Source:    source,
		Message:   err.Error(),
		Err:       err,
	}
	r.Debug(rej.Error(), 0)
	return rej
}

// strictError builds the error returned in strict mode, or nil.
func (r *Resolver) strictError(res *ParseResult) error {
	if !r.strict {
		return nil
	}
	var fieldErrors []FieldError
	for _, u := range res.Unresolved {
		fieldErrors = append(fieldErrors, FieldError{
			Key:     u,
			Code:    ErrCodeUnknownOption,
			Message: "does not match any option (strict mode)",
		})
	}
	for _, rej := range res.Rejections {
		fieldErrors = append(fieldErrors, FieldError{
			Key:     rej.Key,
			Code:    rej.code(),
			Message: rej.Message,
		})
	}
	if len(fieldErrors) == 0 {
		return nil
	}
	return &ValidationError{FieldErrors: fieldErrors}
}
