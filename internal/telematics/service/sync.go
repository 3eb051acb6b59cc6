package service

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"coldchain/internal/platform/tracer"
	"coldchain/internal/telematics/flespi"
	"coldchain/internal/telematics/models"
	dErrors "coldchain/pkg/domain-errors"
)

// SyncCatalog fetches the device types of every protocol, at most
// syncWorkers at a time, and replaces the stored catalog. Protocols the
// vendor no longer knows are reported as failed; any other vendor error
// aborts the sync and keeps the previous catalog.
func (s *Service) SyncCatalog(ctx context.Context) (_ *models.SyncReport, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanTelematicsSync)
	defer func() { span.End(err) }()
	start := s.clock.Now()

	protocols, err := s.vendor.ListProtocols(ctx)
	if err != nil {
		return nil, wrapVendorErr(err, "failed to list protocols")
	}
	if err := s.cache.Set(ctx, protocols, s.protocolTTL); err != nil {
		s.logger.WarnContext(ctx, "failed to cache protocol catalog", "error", err)
	}

	var (
		mu      sync.Mutex
		byProto = make(map[int64][]models.DeviceType, len(protocols))
		failed  []int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.syncWorkers)
	for _, p := range protocols {
		g.Go(func() error {
			types, err := s.vendor.ListDeviceTypes(gctx, p.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if flespi.IsNotFound(err) {
					failed = append(failed, p.ID)
					return nil
				}
				return err
			}
			byProto[p.ID] = types
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, wrapVendorErr(err, "failed to sync device types")
	}

	total := 0
	for _, types := range byProto {
		total += len(types)
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i] < failed[j] })

	now := s.clock.Now()
	if err := s.catalog.Replace(ctx, &models.Catalog{Protocols: protocols, DeviceTypes: byProto, SyncedAt: now}); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store catalog")
	}

	report := &models.SyncReport{
		Protocols:   len(protocols),
		DeviceTypes: total,
		Failed:      failed,
		Duration:    now.Sub(start),
		SyncedAt:    now,
	}
	span.SetAttributes(tracer.Int64("catalog.device_types", int64(total)))
	s.metrics.ObserveCatalogSync(total, report.Duration)
	s.logger.InfoContext(ctx, "hardware catalog synced",
		"protocols", report.Protocols,
		"device_types", report.DeviceTypes,
		"failed", len(failed),
	)
	return report, nil
}
