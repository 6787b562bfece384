package email

import (
	"context"
	"fmt"

	"yamdb-backend/internal/domains/user"
)

// DirectNotifier gửi confirmation code ngay trong request, dùng khi
// QUEUE_ENABLED=false.
type DirectNotifier struct {
	sender Sender
}

func NewDirectNotifier(sender Sender) *DirectNotifier {
	return &DirectNotifier{sender: sender}
}

func (n *DirectNotifier) NotifyConfirmationCode(ctx context.Context, p user.ConfirmationCodePayload) error {
	if err := n.sender.Send(ctx, ConfirmationSubject, ConfirmationBody(p.Code), p.Email); err != nil {
		return fmt.Errorf("send confirmation code: %w", err)
	}
	return nil
}
