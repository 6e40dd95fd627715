package services

import (
	"context"
	"time"

	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/repositories"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/transformers"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/utils"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/validators"
	"github.com/SearchIntel/getmyhousevalue-backend/pkg/logger"
	"github.com/SearchIntel/getmyhousevalue-backend/pkg/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Timeouts bounds each upstream fetch independently.
type Timeouts struct {
	SalesExact   time.Duration
	SalesSector  time.Duration
	Certificates time.Duration
}

type PropertySearchService struct {
	certificates repositories.CertificateRepository
	salesExact   *SourceFetcher[models.SaleRecord]
	salesSector  *SourceFetcher[models.SaleRecord]
	certFetcher  *SourceFetcher[models.CertificateRecord]
	postTrans    transformers.PostcodeTransformer
	propTrans    transformers.PropertyTransformer
	validator    validators.PropertyValidator
	newBatch     func() string
}

func NewPropertySearchService(
	sales repositories.SalesRepository,
	certificates repositories.CertificateRepository,
	postTrans transformers.PostcodeTransformer,
	propTrans transformers.PropertyTransformer,
	validator validators.PropertyValidator,
	timeouts Timeouts,
) *PropertySearchService {
	return &PropertySearchService{
		certificates: certificates,
		salesExact:   NewSourceFetcher[models.SaleRecord](SourceSalesExact, timeouts.SalesExact, sales.FindByPostcode),
		salesSector:  NewSourceFetcher[models.SaleRecord](SourceSalesSector, timeouts.SalesSector, sales.FindBySector),
		certFetcher:  NewSourceFetcher[models.CertificateRecord](SourceCertificates, timeouts.Certificates, certificates.FindByPostcode),
		postTrans:    postTrans,
		propTrans:    propTrans,
		validator:    validator,
		newBatch:     func() string { return uuid.NewString()[:8] },
	}
}

// SearchByPostcode returns every property found for the postcode. The only
// error it returns is a validation failure; upstream problems shrink the
// result instead.
func (s *PropertySearchService) SearchByPostcode(ctx context.Context, req *models.SearchRequest) ([]models.UnifiedProperty, error) {
	if err := s.validator.ValidateSearch(req); err != nil {
		return nil, err
	}

	postcode := s.postTrans.Normalize(req.Postcode)
	logger.GlobalLogger.Printf("Searching for: postcode=%s, sector=%s", postcode.Full, postcode.Sector)

	var (
		sales []models.SaleRecord
		certs []models.CertificateRecord
		g     errgroup.Group
	)

	g.Go(func() error {
		sales = s.fetchSales(ctx, postcode)
		return nil
	})
	g.Go(func() error {
		certs = s.fetchCertificates(ctx, postcode)
		return nil
	})
	// Fetchers absorb their own failures, so Wait has nothing to report.
	_ = g.Wait()

	matches := Reconcile(sales, certs)
	for _, m := range matches {
		metrics.ReconciledPropertiesTotal.WithLabelValues(string(m.Origin())).Inc()
	}

	properties := s.propTrans.TransformMatches(matches, postcode, s.newBatch())
	logger.GlobalLogger.Printf("Search finished: postcode=%s, sales=%d, certificates=%d, properties=%d",
		postcode.Full, len(sales), len(certs), len(properties))
	return properties, nil
}

// fetchSales tries the exact postcode and widens to the sector only when the
// exact lookup came back empty, whether genuinely or through failure.
func (s *PropertySearchService) fetchSales(ctx context.Context, postcode models.NormalizedPostcode) []models.SaleRecord {
	exact := s.salesExact.Fetch(ctx, postcode)
	if len(exact.Records) > 0 {
		return exact.Records
	}

	metrics.SectorFallbacksTotal.Inc()
	logger.GlobalLogger.Printf("No exact sales, widening to sector: postcode=%s, sector=%s, degraded=%t",
		postcode.Full, postcode.Sector, exact.Degraded())
	return s.salesSector.Fetch(ctx, postcode).Records
}

func (s *PropertySearchService) fetchCertificates(ctx context.Context, postcode models.NormalizedPostcode) []models.CertificateRecord {
	if !s.certificates.Enabled() {
		logger.GlobalLogger.Printf("Skipping EPC fetch: no credentials configured")
		utils.RecordUpstreamSkipped(SourceCertificates)
		return []models.CertificateRecord{}
	}
	return s.certFetcher.Fetch(ctx, postcode).Records
}
