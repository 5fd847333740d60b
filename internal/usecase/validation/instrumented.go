package validation

import (
	"iter"

	domval "github.com/kailas-cloud/schemaguard/internal/domain/validation"
	"github.com/kailas-cloud/schemaguard/internal/metrics"
)

// InstrumentedRule wraps a Rule and counts the errors it reports.
type InstrumentedRule struct {
	inner Rule
}

// Instrument wraps every rule with error counting.
func Instrument(rules ...Rule) []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = &InstrumentedRule{inner: r}
	}
	return out
}

// Name implements Rule.
func (r *InstrumentedRule) Name() string { return r.inner.Name() }

// Validate implements Rule. Errors are counted as they are consumed.
func (r *InstrumentedRule) Validate(documentType string, m Mapping, s Schema) iter.Seq[domval.Error] {
	counter := metrics.ValidationErrorsTotal.WithLabelValues(r.inner.Name())
	return func(yield func(domval.Error) bool) {
		for verr := range r.inner.Validate(documentType, m, s) {
			counter.Inc()
			if !yield(verr) {
				return
			}
		}
	}
}
