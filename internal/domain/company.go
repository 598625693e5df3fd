package domain

import (
	"fmt"
	"strings"
	"time"
)

// Organisation role of a company on the network.
type Role string

const (
	RoleManufacturer Role = "Manufacturer"
	RoleDistributor  Role = "Distributor"
	RoleRetailer     Role = "Retailer"
	RoleTransporter  Role = "Transporter"
)

// Parse a role name exactly as registered (case-sensitive).
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleManufacturer, RoleDistributor, RoleRetailer, RoleTransporter:
		return r, nil
	}
	return "", fmt.Errorf("parse role %q: %w", s, ErrInvalidArgument)
}

// Level returns the supply-chain tier of the role.
// Transporters do not trade and have level 0.
func (r Role) Level() int {
	switch r {
	case RoleManufacturer:
		return 1
	case RoleDistributor:
		return 2
	case RoleRetailer:
		return 3
	}
	return 0
}

// Organisation label a caller of this role presents, e.g. "manufacturer".
func (r Role) Label() string { return strings.ToLower(string(r)) }

// Derive a caller role label from the issuing organisation name.
// "distributor.pharma-network.com" -> "distributor".
func RoleFromOrganization(org string) string {
	label, _, _ := strings.Cut(strings.TrimSpace(org), ".")
	return strings.ToLower(label)
}

// A registered participant of the supply chain.
// CompanyID is the company's composite key; drugs and orders reference
// companies by it. Role and HierarchyLevel never change after registration.
type Company struct {
	CompanyID      string    `json:"companyID"`
	CRN            string    `json:"companyCRN"`
	Name           string    `json:"companyName"`
	Location       string    `json:"location"`
	Role           Role      `json:"organisationRole"`
	HierarchyLevel int       `json:"hierarchyKey"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
