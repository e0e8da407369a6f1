package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"catalog/indexer/internal/domain/task"
	"catalog/indexer/internal/queue"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// EnqueueAll schedules a reindex of every source
func (s *Service) EnqueueAll(ctx context.Context, sources []string, force bool) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, source := range sources {
		source := source
		g.Go(func() error {
			if _, err := s.queue.AddTask(ctx, &task.ReindexTask{Source: source, Force: force}); err != nil {
				log.Errorf("❌ Failed to enqueue reindex of %s: %v", source, err)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	log.Infof("🔄 Enqueued %d sources for reindexing", len(sources))
	return nil
}

func (s *Service) RunWorkers(ctx context.Context, numWorkers int) error {
	var wg sync.WaitGroup

	// Run workers for both regular and retry tasks
	s.runWorkersForStream(ctx, &wg, numWorkers, queue.StreamName((&task.ReindexTask{}).TaskType()), "main")
	s.runWorkersForStream(ctx, &wg, max(1, numWorkers/2), queue.StreamName((&task.ReindexRetryTask{}).TaskType()), "retry")

	wg.Wait()
	return nil
}

func (s *Service) runWorkersForStream(ctx context.Context, wg *sync.WaitGroup, numWorkers int, streamName, workerType string) {
	// Auto-claimer for messages left pending by dead consumers
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(s.minIdleTime)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				consumer := fmt.Sprintf("autoclaimer-%s", workerType)
				claimedMessages, err := s.queue.AutoClaim(ctx, s.groupName, consumer, streamName, s.minIdleTime)
				if err != nil {
					log.Errorf("❌ Failed to auto-claim messages for %s: %v", streamName, err)
					continue
				}
				if len(claimedMessages) > 0 {
					log.Infof("🔄 Auto-claimed %d messages from %s stream", len(claimedMessages), workerType)
					for _, msg := range claimedMessages {
						if err := s.processMessage(ctx, &msg); err != nil {
							log.Errorf("❌ Failed to process auto-claimed message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}
	}()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			consumer := fmt.Sprintf("%s-worker-%d", workerType, workerID)
			log.Infof("🚀 Starting %s worker %d as consumer %s", workerType, workerID, consumer)
			for {
				select {
				case <-ctx.Done():
					log.Infof("🛑 %s worker %d stopping", workerType, workerID)
					return
				default:
					msg, err := s.queue.GetTask(ctx, s.groupName, consumer, streamName)
					if err != nil {
						if ctx.Err() != nil {
							continue
						}
						log.Errorf("❌ Failed to get task from %s: %v", streamName, err)
						time.Sleep(time.Second)
						continue
					}

					if msg != nil {
						if err := s.processMessage(ctx, msg); err != nil {
							log.Errorf("❌ Failed to process message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}(i + 1)
	}
}

func (s *Service) processMessage(ctx context.Context, msg *redis.XMessage) error {
	taskType, ok := msg.Values["task_type"].(string)
	if !ok {
		return fmt.Errorf("invalid task type in message %s", msg.ID)
	}

	taskData, ok := msg.Values["task_data"].(string)
	if !ok {
		return fmt.Errorf("invalid task data in message %s", msg.ID)
	}

	switch taskType {
	case "ReindexTask":
		reindexTask, err := task.UnmarshalTask[*task.ReindexTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal reindex task data: %w", err)
		}

		if _, _, err := s.Reindex(ctx, reindexTask.Source, reindexTask.Force); err != nil {
			// Add to retry queue instead of failing completely
			retryTask := &task.ReindexRetryTask{
				Source: reindexTask.Source,
				Error:  err.Error(),
			}

			// Left pending on failure so the auto-claimer picks the request up again
			if _, addErr := s.queue.AddTask(ctx, retryTask); addErr != nil {
				return fmt.Errorf("failed to add retry task for %s: %w", reindexTask.Source, addErr)
			}
			log.Warnf("🔄 Added %s to retry queue due to error: %v", reindexTask.Source, err)
		}

	case "ReindexRetryTask":
		retryTask, err := task.UnmarshalTask[*task.ReindexRetryTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal retry task data: %w", err)
		}

		if err := s.retryReindex(ctx, retryTask); err != nil {
			return fmt.Errorf("failed to retry reindex: %w", err)
		}

	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}

	if err := s.queue.AckTask(ctx, queue.StreamName(taskType), s.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	return nil
}

func (s *Service) retryReindex(ctx context.Context, retryTask *task.ReindexRetryTask) error {
	retryTask.RetryCount++

	log.Infof("🔄 Retrying reindex of %s (attempt %d)", retryTask.Source, retryTask.RetryCount)

	// A retry always rewrites the index; the failed run may have recorded nothing
	if _, _, err := s.Reindex(ctx, retryTask.Source, true); err != nil {
		if retryTask.RetryCount >= maxReindexRetries {
			log.Errorf("❌ Giving up on %s after %d attempts: %v", retryTask.Source, retryTask.RetryCount, err)

			// The next scheduled round must not skip the source as unchanged
			if clearErr := s.stateManager.ClearFingerprint(ctx, retryTask.Source); clearErr != nil {
				log.Errorf("❌ Failed to clear fingerprint of %s: %v", retryTask.Source, clearErr)
			}
			return nil
		}

		next := &task.ReindexRetryTask{
			Source:     retryTask.Source,
			RetryCount: retryTask.RetryCount,
			Error:      err.Error(),
		}

		if _, addErr := s.queue.AddTask(ctx, next); addErr != nil {
			log.Errorf("❌ Failed to re-add retry task for %s: %v", retryTask.Source, addErr)
			return addErr
		}

		log.Warnf("🔄 Reindex of %s failed again, will retry (attempt %d): %v",
			retryTask.Source, retryTask.RetryCount, err)
		return nil
	}

	log.Infof("✅ Successfully reindexed %s after %d attempts", retryTask.Source, retryTask.RetryCount)
	return nil
}
