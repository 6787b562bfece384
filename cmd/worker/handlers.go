package main

import (
	"github.com/hibiken/asynq"

	"yamdb-backend/internal/domains/user/job"
	emailjob "yamdb-backend/internal/infrastructure/email/job"
	"yamdb-backend/internal/shared"
	"yamdb-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Email handlers
	confirmationCode *emailjob.ConfirmationCodeHandler

	// Maintenance handlers
	purgeExpiredCodes *job.PurgeExpiredCodesHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		confirmationCode:  emailjob.NewConfirmationCodeHandler(c.EmailSender),
		purgeExpiredCodes: job.NewPurgeExpiredCodesHandler(c.UserService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeSendConfirmationCode, h.confirmationCode.ProcessTask)
	mux.HandleFunc(shared.TypePurgeExpiredCodes, h.purgeExpiredCodes.ProcessTask)
}
