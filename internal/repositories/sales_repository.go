package repositories

import (
	"context"

	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/utils"
	"github.com/SearchIntel/getmyhousevalue-backend/pkg/landregistry"
)

type salesRepository struct {
	client *landregistry.Client
}

func NewSalesRepository(client *landregistry.Client) SalesRepository {
	return &salesRepository{client: client}
}

func (r *salesRepository) FindByPostcode(ctx context.Context, postcode models.NormalizedPostcode) ([]models.SaleRecord, error) {
	q, err := landregistry.BuildExactQuery(postcode)
	if err != nil {
		return nil, utils.WrapError(err, "build %s sales query", landregistry.ExactMode)
	}
	return r.run(ctx, q)
}

func (r *salesRepository) FindBySector(ctx context.Context, postcode models.NormalizedPostcode) ([]models.SaleRecord, error) {
	q, err := landregistry.BuildSectorQuery(postcode)
	if err != nil {
		return nil, utils.WrapError(err, "build %s sales query", landregistry.SectorMode)
	}
	return r.run(ctx, q)
}

func (r *salesRepository) run(ctx context.Context, q landregistry.Query) ([]models.SaleRecord, error) {
	records, err := r.client.Run(ctx, q)
	if err != nil {
		return nil, err
	}
	utils.RecordUpstreamRecords("sales_"+q.Mode.String(), len(records))
	return records, nil
}
