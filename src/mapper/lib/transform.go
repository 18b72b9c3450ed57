package mapper

import "fmt"

// Collector receives the pairs emitted by a RecordTransform.
type Collector interface {
	Collect(key string, value float64)
}

// Reporter receives status text for dropped records.
type Reporter interface {
	SetStatus(status string)
}

type CollectorFunc func(key string, value float64)

func (f CollectorFunc) Collect(key string, value float64) { f(key, value) }

type ReporterFunc func(status string)

func (f ReporterFunc) SetStatus(status string) { f(status) }

type Pair struct {
	Key   string
	Value float64
}

// Result is the outcome of transforming one line: a pair, a drop, or both nil
// when the drop is silent.
type Result struct {
	Pair       *Pair
	Dropped    DropKind
	Diagnostic *Diagnostic
}

func (r Result) Emitted() bool {
	return r.Pair != nil
}

// RecordTransform turns one raw transaction line into a (period key, revenue) pair.
// It keeps no state between lines, so a single instance is safe for concurrent use,
// though workers normally own one each.
type RecordTransform struct {
	padKeys          bool
	dropDiagnostics  bool
	dayFirstFallback bool
}

type Option func(*RecordTransform)

// WithKeyPadding controls whether emitted keys carry the report alignment pad.
// Enabled by default.
func WithKeyPadding(enabled bool) Option {
	return func(t *RecordTransform) {
		t.padKeys = enabled
	}
}

// WithDropDiagnostics makes schema and date-format drops report a diagnostic too.
// Disabled by default: those records are skipped silently.
func WithDropDiagnostics(enabled bool) Option {
	return func(t *RecordTransform) {
		t.dropDiagnostics = enabled
	}
}

// WithDayFirstFallback controls whether a date whose first component is not a month
// code is read again as day-first ("15/04/21" is April). The first component always
// wins when it is a valid month. Enabled by default.
func WithDayFirstFallback(enabled bool) Option {
	return func(t *RecordTransform) {
		t.dayFirstFallback = enabled
	}
}

func NewRecordTransform(opts ...Option) *RecordTransform {
	t := &RecordTransform{
		padKeys:          true,
		dropDiagnostics:  false,
		dayFirstFallback: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform computes the outcome for line without side effects.
func (t *RecordTransform) Transform(line string) Result {
	fields := splitFields(line, FIELD_SEPARATOR)
	if len(fields) < MIN_FIELDS {
		return t.silentDrop(DropSchema, line)
	}

	parts, ok := parseDateParts(fields[DATETIME_FIELD])
	if !ok {
		return t.silentDrop(DropDateFormat, line)
	}

	key, ok := NewPeriodKey(parts)
	if !ok && t.dayFirstFallback {
		key, ok = NewPeriodKey(parts.DayFirst())
	}
	if !ok {
		cause := fmt.Errorf("month code %q", parts.MonthCode)
		return dropped(DropUnknownMonth, newDiagnostic(DropUnknownMonth, line, cause))
	}

	quantity, err := toInt(fields[QUANTITY_FIELD])
	if err != nil {
		return dropped(DropNumeric, newDiagnostic(DropNumeric, line, err))
	}
	price, err := toFloat(fields[PRICE_FIELD])
	if err != nil {
		return dropped(DropNumeric, newDiagnostic(DropNumeric, line, err))
	}

	value := float64(quantity) * price
	if !isFinite(value) {
		cause := fmt.Errorf("revenue of %d x %g overflows", quantity, price)
		return dropped(DropNumeric, newDiagnostic(DropNumeric, line, cause))
	}

	keyText := key.String()
	if t.padKeys {
		keyText = key.Padded()
	}

	return Result{
		Pair: &Pair{
			Key:   keyText,
			Value: value,
		},
	}
}

// Process transforms line, sending the pair to out or the diagnostic to reporter.
// A nil reporter discards diagnostics.
func (t *RecordTransform) Process(line string, out Collector, reporter Reporter) Result {
	result := t.Transform(line)

	if result.Pair != nil {
		out.Collect(result.Pair.Key, result.Pair.Value)
	}
	if result.Diagnostic != nil && reporter != nil {
		reporter.SetStatus(result.Diagnostic.Message())
	}
	return result
}

func (t *RecordTransform) silentDrop(kind DropKind, line string) Result {
	if !t.dropDiagnostics {
		return dropped(kind, nil)
	}
	return dropped(kind, newDiagnostic(kind, line, nil))
}

func dropped(kind DropKind, diagnostic *Diagnostic) Result {
	return Result{
		Dropped:    kind,
		Diagnostic: diagnostic,
	}
}
