package services

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/SearchIntel/getmyhousevalue-backend/internal/errors"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/utils"
	"github.com/SearchIntel/getmyhousevalue-backend/pkg/logger"
	"github.com/SearchIntel/getmyhousevalue-backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Source names used in logs, metrics and spans.
const (
	SourceSalesExact   = "sales_exact"
	SourceSalesSector  = "sales_sector"
	SourceCertificates = "certificates"
)

// FetchResult is what a fetch hands back: records, or no records and the
// cause. Callers only ever branch on len(Records).
type FetchResult[T any] struct {
	Records []T
	Cause   error
	Elapsed time.Duration
}

// Degraded reports whether the fetch failed and fell back to empty.
func (r FetchResult[T]) Degraded() bool {
	return r.Cause != nil
}

// FetchFunc performs one upstream lookup for a postcode.
type FetchFunc[T any] func(ctx context.Context, postcode models.NormalizedPostcode) ([]T, error)

// SourceFetcher runs a FetchFunc under its own deadline and absorbs every
// failure, panics included. Fetch never returns an error.
type SourceFetcher[T any] struct {
	name    string
	timeout time.Duration
	fetch   FetchFunc[T]
}

func NewSourceFetcher[T any](name string, timeout time.Duration, fetch FetchFunc[T]) *SourceFetcher[T] {
	return &SourceFetcher[T]{name: name, timeout: timeout, fetch: fetch}
}

func (f *SourceFetcher[T]) Fetch(ctx context.Context, postcode models.NormalizedPostcode) (result FetchResult[T]) {
	ctx, span := tracing.Tracer().Start(ctx, "fetch."+f.name)
	span.SetAttributes(
		attribute.String("fetch.source", f.name),
		attribute.String("postcode.compact", postcode.Compact),
	)

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = FetchResult[T]{Cause: fmt.Errorf("%w: panic: %v", apperrors.ErrUpstreamUnavailable, r)}
		}
		result.Elapsed = time.Since(start)
		f.observe(postcode, &result)

		span.SetAttributes(attribute.Int("fetch.records", len(result.Records)))
		if result.Cause != nil {
			span.RecordError(result.Cause)
			span.SetStatus(codes.Error, apperrors.Classify(result.Cause))
		}
		span.End()
	}()

	records, err := f.fetch(ctx, postcode)
	if err != nil {
		return FetchResult[T]{Cause: err}
	}
	if records == nil {
		records = []T{}
	}
	return FetchResult[T]{Records: records}
}

func (f *SourceFetcher[T]) observe(postcode models.NormalizedPostcode, result *FetchResult[T]) {
	if result.Cause != nil {
		code := apperrors.Classify(result.Cause)
		utils.RecordUpstreamFetch(f.name, code, result.Elapsed)
		logger.GlobalLogger.Errorf("Upstream fetch degraded to empty: source=%s, postcode=%s, code=%s, elapsed=%v, error=%v",
			f.name, postcode.Compact, code, result.Elapsed, result.Cause)
		result.Records = []T{}
		return
	}

	outcome := "ok"
	if len(result.Records) == 0 {
		outcome = "empty"
	}
	utils.RecordUpstreamFetch(f.name, outcome, result.Elapsed)
	logger.GlobalLogger.Debugf("Upstream fetch finished: source=%s, postcode=%s, records=%d, elapsed=%v",
		f.name, postcode.Compact, len(result.Records), result.Elapsed)
}
