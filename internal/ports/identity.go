package ports

// Identity is the verified identity of the party invoking an operation.
type Identity interface {
	// Return the caller's organisation role label, e.g. "retailer".
	CallerRole() (string, error)
}
