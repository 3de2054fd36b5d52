package config

import "time"

type QueueStatus string

const (
	QueueStatusPending    QueueStatus = "pending"
	QueueStatusProcessing QueueStatus = "processing"
	QueueStatusCompleted  QueueStatus = "completed"
	QueueStatusFailed     QueueStatus = "failed"
)

var AllowedQueueStatuses = []QueueStatus{
	QueueStatusPending,
	QueueStatusProcessing,
	QueueStatusCompleted,
	QueueStatusFailed,
}

const (
	// MaxQueueAttempts is the number of failed extraction attempts after
	// which a queue item is parked as failed.
	MaxQueueAttempts = 3
	// QueueBatchSize caps how many items one trigger invocation handles.
	QueueBatchSize = 5
)

type GroupInvitationStatus string

const (
	GroupInvitationPending  GroupInvitationStatus = "pending"
	GroupInvitationAccepted GroupInvitationStatus = "accepted"
	GroupInvitationDeclined GroupInvitationStatus = "declined"
)

// Machine-readable token states returned to callers.
const (
	TokenStateValid           = "valid"
	TokenStateInvalid         = "invalid"
	TokenStateExpired         = "expired"
	TokenStateUsed            = "used"
	TokenStateAlreadyAccepted = "already_accepted"
	TokenStateDeclined        = "declined"
	TokenStateAlreadyMember   = "already_member"
)

const PurchaseActivationTTL = 30 * 24 * time.Hour

var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/heic"}

const MaxImageBytes = 15 << 20
