// Package pricing holds the single place where a wholesale base price is
// turned into the price a viewer is allowed to see. Every component that
// returns a part to a caller routes the price field through DisplayPrice
// before it leaves the core.
package pricing

import (
	"github.com/shopspring/decimal"

	"parts-service/internal/model"
)

var hundred = decimal.NewFromInt(100)

type Policy struct {
	defaultMarkup decimal.Decimal
}

// NewPolicy creates a policy with the system default markup percent.
func NewPolicy(defaultMarkupPercent decimal.Decimal) *Policy {
	return &Policy{defaultMarkup: defaultMarkupPercent}
}

// DisplayPrice maps (base price, viewer) to the price shown to that viewer.
// A privileged viewer in admin view sees the wholesale price unmodified;
// everyone else sees base * (1 + markup/100), where the markup is the
// privileged viewer's own percentage when set and the system default
// otherwise. The result is rounded to two places.
func (p *Policy) DisplayPrice(base decimal.Decimal, viewer model.Viewer) decimal.Decimal {
	if viewer.Role == model.RolePrivileged && viewer.AdminView {
		return base
	}
	markup := p.defaultMarkup
	if viewer.Role == model.RolePrivileged && viewer.MarkupPercent != nil {
		markup = *viewer.MarkupPercent
	}
	return base.Mul(hundred.Add(markup)).Div(hundred).Round(2)
}
