package identity

import (
	"crypto/x509"
	"errors"
	"fmt"
	"pharmanet-service/internal/domain"
)

// Anything that can present the caller's verified certificate.
// Fabric's cid.ClientIdentity satisfies it.
type CertificateSource interface {
	GetX509Certificate() (*x509.Certificate, error)
}

// CertificateIdentity derives the caller role from the organisation of the
// certificate authority that issued the caller's certificate.
type CertificateIdentity struct {
	Source CertificateSource
}

func NewCertificateIdentity(src CertificateSource) *CertificateIdentity {
	return &CertificateIdentity{Source: src}
}

func (c *CertificateIdentity) CallerRole() (string, error) {
	if c.Source == nil {
		return "", errors.New("certificate identity: no certificate source")
	}

	cert, err := c.Source.GetX509Certificate()
	if err != nil {
		return "", fmt.Errorf("certificate identity: read certificate: %w", err)
	}
	if cert == nil || len(cert.Issuer.Organization) == 0 {
		return "", errors.New("certificate identity: issuer has no organization")
	}

	return domain.RoleFromOrganization(cert.Issuer.Organization[0]), nil
}
