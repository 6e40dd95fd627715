package services

import (
	"strings"

	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"
)

// Reconcile joins sales against certificates.
//
// Each sale takes the first certificate, in upstream order, whose first or
// second address line contains the sale's building number. Containment is
// case-sensitive and an empty building number matches the first certificate.
// Certificates are not consumed and may enrich several sales.
//
// With no sales, every certificate is returned on its own. With neither,
// the result is empty. Sale-origin and certificate-only matches are never
// mixed.
func Reconcile(sales []models.SaleRecord, certificates []models.CertificateRecord) []models.Match {
	if len(sales) == 0 {
		matches := make([]models.Match, 0, len(certificates))
		for i := range certificates {
			matches = append(matches, models.Match{Certificate: &certificates[i]})
		}
		return matches
	}

	matches := make([]models.Match, 0, len(sales))
	for i := range sales {
		matches = append(matches, models.Match{
			Sale:        &sales[i],
			Certificate: findCertificate(sales[i].BuildingNumber, certificates),
		})
	}
	return matches
}

func findCertificate(buildingNumber string, certificates []models.CertificateRecord) *models.CertificateRecord {
	for i := range certificates {
		c := &certificates[i]
		if strings.Contains(c.AddressLine1, buildingNumber) || strings.Contains(c.AddressLine2, buildingNumber) {
			return c
		}
	}
	return nil
}
