package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"yamdb-backend/internal/domains/user"
	"yamdb-backend/internal/infrastructure/email"
)

// ConfirmationCodeHandler xử lý task email:confirmation_code.
type ConfirmationCodeHandler struct {
	sender email.Sender
}

func NewConfirmationCodeHandler(sender email.Sender) *ConfirmationCodeHandler {
	return &ConfirmationCodeHandler{sender: sender}
}

func (h *ConfirmationCodeHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload user.ConfirmationCodePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ConfirmationCode payload")
		// Payload sai format, retry cũng không giúp được.
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("username", payload.Username).
		Str("email", payload.Email).
		Msg("Processing confirmation code email")

	if err := h.sender.Send(ctx, email.ConfirmationSubject, email.ConfirmationBody(payload.Code), payload.Email); err != nil {
		return fmt.Errorf("send confirmation code email: %w", err)
	}

	log.Info().Str("email", payload.Email).Msg("Confirmation code email sent")
	return nil
}
