package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb-backend/internal/domains/user"
	"yamdb-backend/internal/shared"
)

type recordingSender struct {
	subject, body, recipient string
	err                      error
}

func (s *recordingSender) Send(_ context.Context, subject, body, recipient string) error {
	s.subject, s.body, s.recipient = subject, body, recipient
	return s.err
}

func TestConfirmationCodeHandler_SendsMail(t *testing.T) {
	sender := &recordingSender{}
	payload, err := json.Marshal(user.ConfirmationCodePayload{Username: "alice", Email: "alice@example.com", Code: "abc123"})
	require.NoError(t, err)

	err = NewConfirmationCodeHandler(sender).ProcessTask(context.Background(), asynq.NewTask(shared.TypeSendConfirmationCode, payload))
	require.NoError(t, err)

	assert.Equal(t, "code", sender.subject)
	assert.Equal(t, "confirmation_code = abc123", sender.body)
	assert.Equal(t, "alice@example.com", sender.recipient)
}

func TestConfirmationCodeHandler_BadPayloadSkipsRetry(t *testing.T) {
	err := NewConfirmationCodeHandler(&recordingSender{}).ProcessTask(context.Background(), asynq.NewTask(shared.TypeSendConfirmationCode, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestConfirmationCodeHandler_SMTPFailureRetries(t *testing.T) {
	sender := &recordingSender{err: errors.New("connection refused")}
	payload, _ := json.Marshal(user.ConfirmationCodePayload{Email: "a@b.c", Code: "x"})

	err := NewConfirmationCodeHandler(sender).ProcessTask(context.Background(), asynq.NewTask(shared.TypeSendConfirmationCode, payload))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
