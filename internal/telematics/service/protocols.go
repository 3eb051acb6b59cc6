package service

import (
	"context"
	"errors"

	"coldchain/internal/platform/tracer"
	"coldchain/internal/telematics/models"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/sentinel"
)

const maxProtocolResults = 50

// SearchProtocols returns protocols whose name or title contains q. The
// catalog is served from cache and refreshed from the vendor on a miss. A
// cache failure falls through to the vendor.
func (s *Service) SearchProtocols(ctx context.Context, q string) (_ []models.Protocol, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanTelematicsSearch)
	defer func() { span.End(err) }()

	all, hit := s.cachedProtocols(ctx)
	span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, hit))
	if !hit {
		all, err = s.vendor.ListProtocols(ctx)
		if err != nil {
			return nil, wrapVendorErr(err, "failed to list protocols")
		}
		if err := s.cache.Set(ctx, all, s.protocolTTL); err != nil {
			s.logger.WarnContext(ctx, "failed to cache protocol catalog", "error", err)
		}
	}

	out := make([]models.Protocol, 0)
	for _, p := range all {
		if p.Matches(q) {
			out = append(out, p)
			if len(out) == maxProtocolResults {
				break
			}
		}
	}
	return out, nil
}

func (s *Service) cachedProtocols(ctx context.Context) ([]models.Protocol, bool) {
	all, err := s.cache.Get(ctx)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "protocol cache unavailable", "error", err)
		}
		s.metrics.ObserveProtocolCache(false)
		return nil, false
	}
	s.metrics.ObserveProtocolCache(true)
	return all, true
}

// DeviceTypes returns the device types of a protocol from the last catalog
// sync.
func (s *Service) DeviceTypes(ctx context.Context, protocolID int64) ([]models.DeviceType, error) {
	if protocolID <= 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "protocol_id is required")
	}
	types, err := s.catalog.DeviceTypes(ctx, protocolID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "protocol not in the synced catalog")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read catalog")
	}
	return types, nil
}
