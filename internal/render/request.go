package render

import "github.com/nurpe/hvut-filing/internal/model"

// Request is everything both renderers consume for one month group.
// Rendering is a pure function of this value plus the field layout; no
// state is shared across invocations.
type Request struct {
	Group     model.MonthGroup
	Breakdown model.TaxBreakdown
	Flags     model.ReturnFlags
	Preparer  *model.Preparer
	Designee  *model.Designee
	Payment   *model.Payment
}

func (r *Request) includePreparer() bool {
	return r.Preparer != nil && r.Preparer.Include
}

func (r *Request) includeDesignee() bool {
	return r.Designee != nil && r.Designee.Include
}

func (r *Request) includePayment() bool {
	return r.Payment != nil && r.Payment.Include
}
