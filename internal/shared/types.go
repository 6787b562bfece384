package shared

// Asynq task types.
const (
	TypeSendConfirmationCode = "email:confirmation_code"
	TypePurgeExpiredCodes    = "auth:purge_expired_codes"
)

// Asynq queues.
const (
	QueueEmail = "email"
	QueueUser  = "user"
)
