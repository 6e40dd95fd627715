package repositories

import (
	"context"

	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"
)

// SalesRepository reads price-paid transactions.
type SalesRepository interface {
	FindByPostcode(ctx context.Context, postcode models.NormalizedPostcode) ([]models.SaleRecord, error)
	FindBySector(ctx context.Context, postcode models.NormalizedPostcode) ([]models.SaleRecord, error)
}

// CertificateRepository reads energy performance certificates.
type CertificateRepository interface {
	Enabled() bool
	FindByPostcode(ctx context.Context, postcode models.NormalizedPostcode) ([]models.CertificateRecord, error)
}
