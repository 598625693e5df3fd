package services

import (
	"fmt"
	"pharmanet-service/internal/domain"
	"pharmanet-service/internal/ports"
	"strings"
)

// RequireRole fails with ErrAuthorization carrying msg unless the caller's
// role is one of allowed. It never touches the ledger.
func RequireRole(caller ports.Identity, allowed []domain.Role, msg string) error {
	if caller == nil {
		return fmt.Errorf("%w: no caller identity: %s", domain.ErrAuthorization, msg)
	}

	role, err := caller.CallerRole()
	if err != nil {
		return fmt.Errorf("%w: read caller identity: %v: %s", domain.ErrAuthorization, err, msg)
	}
	role = strings.ToLower(strings.TrimSpace(role))

	for _, r := range allowed {
		if role == r.Label() {
			return nil
		}
	}

	return fmt.Errorf("%w: initiator role %q: %s", domain.ErrAuthorization, role, msg)
}
