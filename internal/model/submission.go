package model

import "github.com/google/uuid"

type Principal struct {
	UserID uuid.UUID
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == "ADMIN"
}

// ReturnFlags are the applicable-return indicators ticked at the top of the
// form and mirrored into the XML header.
type ReturnFlags struct {
	AddressChange bool
	Amended       bool
	VINCorrection bool
	FinalReturn   bool
}

// Preparer is the paid-preparer block. Include gates rendering of the whole
// section regardless of individual field values.
type Preparer struct {
	Include      bool
	Name         string
	Firm         string
	Phone        string
	PTIN         string
	SelfEmployed bool
}

// Designee is the third-party designee block.
type Designee struct {
	Include bool
	Name    string
	Phone   string
	PIN     string
}

// Payment is the direct-debit block.
type Payment struct {
	Include       bool
	RoutingNumber string
	AccountNumber string
	AccountType   string
	Phone         string
}
