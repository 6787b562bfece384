package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"yamdb-backend/internal/domains/user"
	"yamdb-backend/internal/shared"
)

// Enqueuer is the subset of *asynq.Client used to publish tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// CodeNotifier publishes confirmation codes for the worker to mail out.
type CodeNotifier struct {
	client Enqueuer
}

func NewCodeNotifier(client Enqueuer) *CodeNotifier {
	return &CodeNotifier{client: client}
}

func (n *CodeNotifier) NotifyConfirmationCode(ctx context.Context, p user.ConfirmationCodePayload) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeSendConfirmationCode, payload)
	if _, err := n.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueEmail),
		asynq.TaskID(uuid.NewString()),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	); err != nil {
		return fmt.Errorf("enqueue confirmation code: %w", err)
	}
	return nil
}
