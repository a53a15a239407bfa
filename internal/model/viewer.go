package model

import "github.com/shopspring/decimal"

// ViewerRole classifies the caller for pricing purposes
type ViewerRole string

const (
	RoleGuest      ViewerRole = "guest"
	RoleCustomer   ViewerRole = "customer"
	RolePrivileged ViewerRole = "privileged"
)

// Viewer carries the identity facts the core needs per request: the role,
// an optional reseller markup, and whether a privileged caller asked for the
// unmodified admin view. It is an explicit value passed into every core
// call; there is no ambient admin flag.
type Viewer struct {
	UserID        uint
	Role          ViewerRole
	MarkupPercent *decimal.Decimal
	AdminView     bool
}

// Guest returns the viewer used for unauthenticated requests.
func Guest() Viewer {
	return Viewer{Role: RoleGuest}
}

// IsPrivileged reports whether the viewer may moderate and see admin views.
func (v Viewer) IsPrivileged() bool {
	return v.Role == RolePrivileged
}
