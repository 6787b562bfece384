package queue

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"yamdb-backend/internal/shared"
)

// PurgeExpiredCodesSpec chạy mỗi giờ.
const PurgeExpiredCodesSpec = "@every 1h"

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisOpt asynq.RedisClientOpt) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerPurgeExpiredCodesJob()
}

// ================================================
// Purge expired confirmation codes
// ================================================
func (s *Scheduler) registerPurgeExpiredCodesJob() error {
	task := asynq.NewTask(shared.TypePurgeExpiredCodes, nil)

	_, err := s.scheduler.Register(
		PurgeExpiredCodesSpec,
		task,
		asynq.Queue(shared.QueueUser),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to register PurgeExpiredCodes job")
		return err
	}

	log.Info().Str("spec", PurgeExpiredCodesSpec).Msg("Registered PurgeExpiredCodes")
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
