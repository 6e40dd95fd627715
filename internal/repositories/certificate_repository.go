package repositories

import (
	"context"

	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/utils"
	"github.com/SearchIntel/getmyhousevalue-backend/pkg/epc"
)

type certificateRepository struct {
	client *epc.Client
}

func NewCertificateRepository(client *epc.Client) CertificateRepository {
	return &certificateRepository{client: client}
}

func (r *certificateRepository) Enabled() bool {
	return r.client.Enabled()
}

func (r *certificateRepository) FindByPostcode(ctx context.Context, postcode models.NormalizedPostcode) ([]models.CertificateRecord, error) {
	records, err := r.client.Search(ctx, epc.NewSearchQuery(postcode))
	if err != nil {
		return nil, utils.WrapError(err, "search certificates for %s", postcode.Compact)
	}
	utils.RecordUpstreamRecords("certificates", len(records))
	return records, nil
}
