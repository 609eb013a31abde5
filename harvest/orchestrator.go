// Package harvest drives the batch state machine: resume, bounded-concurrency
// dispatch, aggregation, cooldown, and checkpointing.
package harvest

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tripforge/go-harvest-hotels/config"
	"github.com/tripforge/go-harvest-hotels/fetch"
	"github.com/tripforge/go-harvest-hotels/models"
	"github.com/tripforge/go-harvest-hotels/parser"
)

const (
	// Consecutive empty results trip a cooldown pause at the high-water
	// mark; at the critical mark the site is treated as hard-blocking,
	// which is logged and waited out, never fatal.
	cooldownHighWater = 5
	cooldownCritical  = 10
	cooldownCeiling   = 45 * time.Second

	reasonNoResults = "no_results"
)

// Store abstracts the checkpoint store so tests can observe saves.
type Store interface {
	Load() *models.HarvestState
	Save(*models.HarvestState) error
}

// Orchestrator owns the HarvestState for one run and walks the work list in
// sequential batches.
type Orchestrator struct {
	cfg       *config.Config
	engine    fetch.Engine
	extractor *parser.Extractor
	store     Store
	metrics   *fetch.Metrics

	// test seams
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func(low, high time.Duration) time.Duration
}

// New builds an orchestrator around an already-selected engine.
func New(cfg *config.Config, engine fetch.Engine, store Store, metrics *fetch.Metrics) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		engine:    engine,
		extractor: parser.NewExtractor(cfg.BaseURL, cfg.MaxRecords),
		store:     store,
		metrics:   metrics,
		sleep:     sleepCtx,
		jitter:    jitterBetween,
	}
}

type itemResult struct {
	records []models.ListingRecord
	reason  string
}

// Run executes the full state machine: Init → BatchLoop → Done. Individual
// key failures never halt the run; cancellation is honored between
// aggregation+checkpoint sequences so the last checkpoint is always a
// consistent, resumable state.
func (o *Orchestrator) Run(ctx context.Context) (*models.RunResult, error) {
	items, err := LoadWorkList(o.cfg.PlacesFile)
	if err != nil {
		return nil, err
	}
	items = SliceWorkList(items, o.cfg.Start, o.cfg.End)

	state := models.NewHarvestState()
	if o.cfg.Resume {
		state = o.store.Load()
	}
	resumed := len(state.Places)

	remaining := make([]models.WorkItem, 0, len(items))
	for _, item := range items {
		if !state.Done(item) {
			remaining = append(remaining, item)
		}
	}
	slog.Info("work list ready",
		slog.Int("total", len(items)),
		slog.Int("already_done", resumed),
		slog.Int("remaining", len(remaining)),
	)

	result := &models.RunResult{Resumed: resumed}
	if named, ok := o.engine.(interface{ Name() string }); ok {
		result.Engine = named.Name()
	}

	if len(remaining) == 0 {
		slog.Info("nothing to do, all places already harvested")
		o.finish(state, result)
		return result, nil
	}

	concurrency := o.cfg.Concurrency
	if result.Engine == "browser" && concurrency > o.cfg.BrowserConcurrency {
		// each unit of browser concurrency holds a full tab
		concurrency = o.cfg.BrowserConcurrency
	}

	if w, ok := o.engine.(interface{ WarmUp(context.Context) }); ok {
		w.WarmUp(ctx)
	}

	totalBatches := (len(remaining) + o.cfg.BatchSize - 1) / o.cfg.BatchSize
	sinceSave := 0
	consecutiveEmpty := 0

	for batchStart := 0; batchStart < len(remaining); batchStart += o.cfg.BatchSize {
		if ctx.Err() != nil {
			slog.Info("run interrupted, stopping at batch boundary")
			break
		}

		batchEnd := batchStart + o.cfg.BatchSize
		if batchEnd > len(remaining) {
			batchEnd = len(remaining)
		}
		batch := remaining[batchStart:batchEnd]
		result.BatchCount++

		slog.Info("batch start",
			slog.Int("batch", result.BatchCount),
			slog.Int("total_batches", totalBatches),
			slog.Int("size", len(batch)),
			slog.String("engine", result.Engine),
		)

		results := make([]itemResult, len(batch))
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(concurrency)
		for i, item := range batch {
			i, item := i, item
			group.Go(func() error {
				results[i] = o.harvestOne(groupCtx, item)
				return nil
			})
		}
		group.Wait()

		// aggregate in original work-list order
		for i, item := range batch {
			res := results[i]
			if len(res.records) > 0 {
				state.Merge(item, res.records)
				consecutiveEmpty = 0
				o.metrics.IncPlace("harvested")
				o.metrics.AddRecords(len(res.records))
				slog.Info("place harvested",
					slog.String("place", item.Key()),
					slog.Int("records", len(res.records)),
				)
			} else {
				state.Fail(item, res.reason)
				consecutiveEmpty++
				o.metrics.IncPlace("failed")
				slog.Warn("place failed",
					slog.String("place", item.Key()),
					slog.String("reason", res.reason),
				)
			}
			sinceSave++
		}

		isLast := batchEnd == len(remaining)
		if sinceSave >= o.cfg.SaveEvery || isLast {
			if o.checkpoint(state) {
				sinceSave = 0
			}
		}

		if ctx.Err() != nil || isLast {
			continue
		}

		if consecutiveEmpty >= cooldownHighWater {
			pause := time.Duration(consecutiveEmpty) * 3 * time.Second
			if pause > cooldownCeiling {
				pause = cooldownCeiling
			}
			pause += o.jitter(3*time.Second, 8*time.Second)
			slog.Warn("cooling down after consecutive empty results",
				slog.Int("consecutive_empty", consecutiveEmpty),
				slog.Duration("pause", pause),
			)
			o.sleep(ctx, pause)
			if consecutiveEmpty >= cooldownCritical {
				slog.Warn("sustained blocking detected, resetting cooldown counter")
				consecutiveEmpty = 0
			}
		} else {
			o.sleep(ctx, o.jitter(o.cfg.BatchDelayLow, o.cfg.BatchDelayHigh))
		}
	}

	o.finish(state, result)
	return result, nil
}

// harvestOne runs the full fetch→classify→extract sequence for one work
// item, including the short-page follow-up and optional amenity enrichment.
// All failures are absorbed into a ledger reason.
func (o *Orchestrator) harvestOne(ctx context.Context, item models.WorkItem) itemResult {
	label := item.Key()
	target := SearchURL(o.cfg.BaseURL, item.Place, item.Country, o.cfg.Currency, 0)

	outcome := o.engine.Fetch(ctx, target, label)
	if outcome.Kind != fetch.KindSuccess {
		return itemResult{reason: outcome.Reason()}
	}

	records := o.extractor.Extract(outcome.Body, item.Place, item.Country)

	if len(records) < o.cfg.MinRecords {
		second := SearchURL(o.cfg.BaseURL, item.Place, item.Country, o.cfg.Currency, secondPageOffset)
		if extra := o.engine.Fetch(ctx, second, label+" p2"); extra.Kind == fetch.KindSuccess {
			records = o.extractor.MergeRecords(records, o.extractor.Extract(extra.Body, item.Place, item.Country))
		}
	}

	if o.cfg.EnrichAmenities {
		o.enrichAmenities(ctx, records)
	}

	if len(records) == 0 {
		return itemResult{reason: reasonNoResults}
	}
	return itemResult{records: records}
}

// enrichAmenities visits detail pages for records whose amenity list is not
// yet full and merges the detail-page facilities in.
func (o *Orchestrator) enrichAmenities(ctx context.Context, records []models.ListingRecord) {
	for i := range records {
		if len(records[i].Amenities) >= parser.MaxAmenities || records[i].Link == "" {
			continue
		}
		outcome := o.engine.Fetch(ctx, records[i].Link, records[i].Name)
		if outcome.Kind != fetch.KindSuccess {
			continue
		}
		detail := parser.ExtractDetailAmenities(outcome.Body)
		if len(detail) == 0 {
			continue
		}
		merged := parser.MergeAmenities(records[i].Amenities, detail)
		records[i].Amenities = parser.PadAmenities(merged, records[i].Category)
	}
}

// checkpoint persists the state; a persistence failure is logged and the
// in-memory state retained so the next attempt can still succeed.
func (o *Orchestrator) checkpoint(state *models.HarvestState) bool {
	if err := o.store.Save(state); err != nil {
		o.metrics.IncCheckpoint("error")
		slog.Error("checkpoint save failed", slog.Any("error", err))
		return false
	}
	o.metrics.IncCheckpoint("ok")
	slog.Debug("checkpoint saved",
		slog.Int("places", len(state.Places)),
		slog.Int("failures", len(state.Failures)),
	)
	return true
}

// finish writes the final unconditional checkpoint, releases engine
// resources, and fills the run summary.
func (o *Orchestrator) finish(state *models.HarvestState, result *models.RunResult) {
	o.checkpoint(state)
	if closer, ok := o.engine.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			slog.Warn("engine close failed", slog.Any("error", err))
		}
	}
	result.PlacesHarvested = len(state.Places)
	result.RecordsTotal = state.RecordCount()
	result.FailureCount = len(state.Failures)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func jitterBetween(low, high time.Duration) time.Duration {
	if high <= low {
		return low
	}
	return low + time.Duration(rand.Int63n(int64(high-low)))
}
