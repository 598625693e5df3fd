package identity

import (
	"errors"
	"pharmanet-service/internal/domain"
)

// Organization is a caller identity asserted by a trusted gateway, given as
// a role label ("retailer") or a full organisation name
// ("retailer.pharma-network.com").
type Organization string

func (o Organization) CallerRole() (string, error) {
	role := domain.RoleFromOrganization(string(o))
	if role == "" {
		return "", errors.New("static identity: organization is empty")
	}
	return role, nil
}
