package gradient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/julianstephens/photo-gallery-sub001/internal/config"
	"github.com/julianstephens/photo-gallery-sub001/internal/infra/metastore"
	"github.com/julianstephens/photo-gallery-sub001/internal/infra/objectstore"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/logger"
)

const (
	queueKey      = "gradient:queue"
	processingKey = "gradient:processing"
	delayedKey    = "gradient:delayed"
	jobTTL        = 24 * time.Hour
	promoterTick  = 5 * time.Second
	shutdownHardTimeout = 10 * time.Second
)

func jobKey(jobID string) string { return "gradient:job:" + jobID }

// EnqueueInput is the caller-supplied payload for Enqueue.
type EnqueueInput struct {
	GuildID     string
	GalleryName string
	StorageKey  string
	ItemID      string
}

// Worker is the GradientWorker of spec §4.6: a durable queue consumer that
// survives restarts, bounds concurrency, backs off on failure, and avoids
// reprocessing completed keys. Its shutdown idiom (running flag + cancel +
// WaitGroup, observed at every suspension point) is the same pattern the
// teacher's Redis pub/sub bus used for its own graceful Close.
type Worker struct {
	store    metastore.MetaStore
	objects  objectstore.ObjectStore
	meta     *Meta
	computer Computer
	logger   *logger.Logger

	enabled      bool
	concurrency  int
	maxRetries   int
	pollInterval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	jobsProcessed  atomic.Int64
	jobsFailed     atomic.Int64
	totalTimeMs    atomic.Int64
	activeJobs     atomic.Int64
}

// NewWorker constructs a Worker from config. computer may be nil in
// environments where gradient computation is not exercised; processJob
// treats a nil computer as an ordinary per-job failure, retried like any
// other until maxRetries (not a crash).
func NewWorker(cfg *config.Config, store metastore.MetaStore, objects objectstore.ObjectStore, computer Computer, log *logger.Logger) *Worker {
	pollInterval := time.Duration(cfg.Gradient.PollIntervalMillis) * time.Millisecond
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &Worker{
		store:        store,
		objects:      objects,
		meta:         NewMeta(store),
		computer:     computer,
		logger:       log,
		enabled:      cfg.Gradient.Enabled,
		concurrency:  cfg.Gradient.Concurrency,
		maxRetries:   cfg.Gradient.MaxRetries,
		pollInterval: pollInterval,
	}
}

// Enqueue validates and queues a gradient job. Returns nil, nil when the
// worker is disabled or the input is invalid (no side effect); returns the
// existing jobId without duplicating work when one is already in flight.
func (w *Worker) Enqueue(ctx context.Context, input EnqueueInput) (*string, error) {
	if !w.enabled {
		return nil, nil
	}
	if input.StorageKey == "" {
		return nil, nil
	}

	jobID := deriveJobID(input.StorageKey)

	exists, err := w.store.Exists(ctx, jobKey(jobID))
	if err != nil {
		return nil, err
	}
	if exists {
		return &jobID, nil
	}

	if err := w.meta.MarkPending(ctx, input.StorageKey); err != nil {
		return nil, err
	}

	job := Job{
		JobID:       jobID,
		GuildID:     input.GuildID,
		GalleryName: input.GalleryName,
		StorageKey:  input.StorageKey,
		ItemID:      input.ItemID,
		Attempts:    0,
		CreatedAt:   time.Now().UnixMilli(),
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return nil, err
	}
	if err := w.store.Set(ctx, jobKey(jobID), string(raw), jobTTL); err != nil {
		return nil, err
	}
	if err := w.store.RPush(ctx, queueKey, jobID); err != nil {
		return nil, err
	}

	return &jobID, nil
}

// Start recovers orphaned leases from a prior crash, then launches the
// dispatch workers and the delayed-job promoter. When the worker is
// disabled, only the orphan recovery runs.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	if err := w.recoverOrphans(ctx); err != nil {
		w.mu.Unlock()
		return err
	}

	if !w.enabled {
		w.mu.Unlock()
		w.logger.Info().Msg("gradient worker disabled; dispatch and promoter loops not started")
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	concurrency := w.concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	w.mu.Unlock()

	for i := 0; i < concurrency; i++ {
		w.wg.Add(1)
		go w.dispatchLoop(workerCtx)
	}
	w.wg.Add(1)
	go w.promoterLoop(workerCtx)

	w.logger.Info().Int("concurrency", concurrency).Msg("gradient worker started")
	return nil
}

// recoverOrphans moves any jobIds left in gradient:processing back onto the
// ready queue before the worker accepts new leases (spec §4.6 "Startup").
func (w *Worker) recoverOrphans(ctx context.Context) error {
	orphans, err := w.store.LRange(ctx, processingKey, 0, -1)
	if err != nil {
		return err
	}
	for _, jobID := range orphans {
		if err := w.store.RPush(ctx, queueKey, jobID); err != nil {
			return err
		}
		if err := w.store.LRem(ctx, processingKey, jobID); err != nil {
			return err
		}
	}
	if len(orphans) > 0 {
		w.logger.Warn().Int("count", len(orphans)).Msg("recovered orphaned gradient jobs")
	}
	return nil
}

// Shutdown stops accepting new leases, cancels in-flight suspension points,
// and waits for all workers to return, bounded by a hard timeout.
func (w *Worker) Shutdown() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel := w.cancel
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(shutdownHardTimeout):
		w.logger.Warn().Msg("gradient worker shutdown timed out waiting for in-flight jobs")
	}
}

func (w *Worker) isRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Worker) dispatchLoop(ctx context.Context) {
	defer w.wg.Done()
	for w.isRunning() {
		jobID, ok, err := w.store.BRPopLPush(ctx, queueKey, processingKey, w.pollInterval)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error().Err(err).Msg("gradient dispatch loop pop failed")
			continue
		}
		if !ok {
			continue
		}

		w.activeJobs.Add(1)
		start := time.Now()
		w.processJob(ctx, jobID)
		w.totalTimeMs.Add(time.Since(start).Milliseconds())
		w.activeJobs.Add(-1)
	}
}

// processJob runs one attempt of spec §4.6's processJob state machine.
func (w *Worker) processJob(ctx context.Context, jobID string) {
	raw, ok, err := w.store.Get(ctx, jobKey(jobID))
	if err != nil {
		w.logger.Error().Err(err).Str("job_id", jobID).Msg("failed to read gradient job record")
		return
	}
	if !ok {
		_ = w.store.LRem(ctx, processingKey, jobID)
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		_ = w.store.Del(ctx, jobKey(jobID))
		_ = w.store.LRem(ctx, processingKey, jobID)
		return
	}

	if err := w.meta.MarkProcessing(ctx, job.StorageKey); err != nil {
		w.logger.Warn().Err(err).Str("storage_key", job.StorageKey).Msg("failed to mark gradient record processing")
	}

	job.Attempts++
	if raw, err := json.Marshal(job); err == nil {
		_ = w.store.Set(ctx, jobKey(jobID), string(raw), jobTTL)
	}

	palette, procErr := w.runComputation(ctx, job.StorageKey)
	if procErr == nil {
		if err := w.meta.MarkCompleted(ctx, job.StorageKey, palette, job.Attempts); err != nil {
			w.logger.Error().Err(err).Str("storage_key", job.StorageKey).Msg("failed to persist completed gradient record")
		}
		_ = w.store.Del(ctx, jobKey(jobID))
		_ = w.store.LRem(ctx, processingKey, jobID)
		w.jobsProcessed.Add(1)
		return
	}

	_ = w.store.LRem(ctx, processingKey, jobID)

	if job.Attempts >= w.maxRetries {
		if err := w.meta.MarkFailed(ctx, job.StorageKey, job.Attempts, procErr); err != nil {
			w.logger.Error().Err(err).Str("storage_key", job.StorageKey).Msg("failed to persist failed gradient record")
		}
		_ = w.store.Del(ctx, jobKey(jobID))
		w.jobsFailed.Add(1)
		return
	}

	delayMs := int64(1) << uint(job.Attempts) * 1000
	readyAt := float64(time.Now().UnixMilli() + delayMs)
	if err := w.store.ZAdd(ctx, delayedKey, readyAt, jobID); err != nil {
		w.logger.Error().Err(err).Str("job_id", jobID).Msg("failed to schedule gradient retry")
	}
}

// runComputation fetches the object and derives its gradient. Both the
// empty-body and missing-computer cases surface as ordinary processing
// failures, retried like any other.
func (w *Worker) runComputation(ctx context.Context, storageKey string) (*Palette, error) {
	body, _, _, err := w.objects.Get(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	bytes, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(bytes) == 0 {
		return nil, errors.New("object body is empty")
	}

	if w.computer == nil {
		return nil, errors.New("no gradient computer configured")
	}
	palette, err := w.computer.ComputeGradient(bytes)
	if err != nil {
		return nil, err
	}
	if palette == nil || palette.Primary == "" || palette.Secondary == "" {
		return nil, errors.New("gradient computation did not yield primary and secondary colors")
	}
	return palette, nil
}

func (w *Worker) promoterLoop(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(promoterTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.promoteDue(ctx)
		}
	}
}

// promoteDue moves all gradient:delayed entries whose score <= now onto
// gradient:queue in a single MULTI/EXEC, per spec §4.6.
func (w *Worker) promoteDue(ctx context.Context) {
	now := float64(time.Now().UnixMilli())
	due, err := w.store.ZRangeByScore(ctx, delayedKey, now)
	if err != nil {
		w.logger.Warn().Err(err).Msg("gradient delayed-job promoter read failed, continuing")
		return
	}
	if len(due) == 0 {
		return
	}
	if err := w.store.PromoteDelayed(ctx, delayedKey, queueKey, due); err != nil {
		w.logger.Warn().Err(err).Msg("gradient delayed-job promotion failed, continuing")
	}
}

// Metrics returns a point-in-time snapshot. No locking beyond the atomic
// counters themselves.
func (w *Worker) Metrics() Metrics {
	processed := w.jobsProcessed.Load()
	var avg float64
	if processed > 0 {
		avg = float64(w.totalTimeMs.Load()) / float64(processed)
	}
	return Metrics{
		JobsProcessed:       processed,
		JobsFailed:          w.jobsFailed.Load(),
		AvgProcessingTimeMs: avg,
		ActiveJobs:          w.activeJobs.Load(),
		IsRunning:           w.isRunning(),
		IsEnabled:           w.enabled,
	}
}
