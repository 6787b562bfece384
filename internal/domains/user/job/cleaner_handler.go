package job

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// CodePurger is implemented by the user service.
type CodePurger interface {
	PurgeExpiredCodes(ctx context.Context) (int64, error)
}

type PurgeExpiredCodesHandler struct {
	purger CodePurger
}

func NewPurgeExpiredCodesHandler(purger CodePurger) *PurgeExpiredCodesHandler {
	return &PurgeExpiredCodesHandler{purger: purger}
}

func (h *PurgeExpiredCodesHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	cleared, err := h.purger.PurgeExpiredCodes(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Purge expired confirmation codes failed")
		return err
	}

	log.Info().Int64("codes_cleared", cleared).Msg("Purged expired confirmation codes")
	return nil
}
