package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Namespaces of the composite keys addressing each entity type.
const (
	CompanyNamespace  = "org.pharma-network.pharmanet.company"
	DrugNamespace     = "org.pharma-network.pharmanet.drug"
	PONamespace       = "org.pharma-network.pharmanet.po"
	ShipmentNamespace = "org.pharma-network.pharmanet.shipment"
)

// Composite keys use the Fabric encoding so that keys built here match the
// ones the peer builds: U+0000 ns U+0000 field1 U+0000 ... fieldN U+0000.
const (
	keyDelimiter = "\x00"
	maxKeyRune   = utf8.MaxRune
)

// MakeKey builds the composite key for namespace and ordered fields.
func MakeKey(namespace string, fields ...string) (string, error) {
	if err := validateKeyPart(namespace); err != nil {
		return "", fmt.Errorf("make key: namespace: %w", err)
	}

	var b strings.Builder
	b.WriteString(keyDelimiter)
	b.WriteString(namespace)
	b.WriteString(keyDelimiter)
	for i, f := range fields {
		if err := validateKeyPart(f); err != nil {
			return "", fmt.Errorf("make key: field #%d: %w", i+1, err)
		}
		b.WriteString(f)
		b.WriteString(keyDelimiter)
	}

	return b.String(), nil
}

// SplitKey decomposes a composite key into its namespace and fields.
func SplitKey(key string) (string, []string, error) {
	if !strings.HasPrefix(key, keyDelimiter) || !strings.HasSuffix(key, keyDelimiter) || len(key) < 2 {
		return "", nil, fmt.Errorf("split key %q: not a composite key: %w", key, ErrInvalidArgument)
	}

	parts := strings.Split(key[1:len(key)-1], keyDelimiter)
	return parts[0], parts[1:], nil
}

// PartialKeyRange returns the [start, end) range holding every key whose
// leading fields equal fields.
func PartialKeyRange(namespace string, fields ...string) (string, string, error) {
	start, err := MakeKey(namespace, fields...)
	if err != nil {
		return "", "", err
	}
	return start, start + string(maxKeyRune), nil
}

// ValidateIdentifier rejects values that could not be a key field
// (invalid UTF-8 or a reserved rune). Free-form identifiers stored where a
// company key may also appear must pass it.
func ValidateIdentifier(s string) error {
	return validateKeyPart(s)
}

func validateKeyPart(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%q is not valid utf-8: %w", s, ErrInvalidArgument)
	}
	for _, r := range s {
		if r == 0 || r == maxKeyRune {
			return fmt.Errorf("%q contains a reserved rune: %w", s, ErrInvalidArgument)
		}
	}
	return nil
}
