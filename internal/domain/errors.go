package domain

import "errors"

var (
	ErrAuthorization        = errors.New("authorization failed")
	ErrDuplicateKey         = errors.New("duplicate key")
	ErrNotFound             = errors.New("not found")
	ErrHierarchyViolation   = errors.New("hierarchy violation")
	ErrQuantityInsufficient = errors.New("quantity insufficient")
	ErrOwnershipMismatch    = errors.New("ownership mismatch")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrUnknownOperation     = errors.New("unknown operation")
)

// ErrorKind names the failure class of err for responses to callers.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthorization):
		return "AuthorizationError"
	case errors.Is(err, ErrDuplicateKey):
		return "DuplicateKeyError"
	case errors.Is(err, ErrNotFound):
		return "NotFoundError"
	case errors.Is(err, ErrHierarchyViolation):
		return "HierarchyViolationError"
	case errors.Is(err, ErrQuantityInsufficient):
		return "QuantityInsufficientError"
	case errors.Is(err, ErrOwnershipMismatch):
		return "OwnershipMismatchError"
	case errors.Is(err, ErrInvalidArgument):
		return "InvalidArgumentError"
	case errors.Is(err, ErrUnknownOperation):
		return "UnknownOperationError"
	}
	return "InternalError"
}
