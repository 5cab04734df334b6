package notification

import "context"

type EmailService interface {
	SendText(ctx context.Context, to, subject, body string) error
	SendHTML(ctx context.Context, to, subject, body string) error
}

type Priority int

const (
	PriorityNormal    Priority = 0
	PriorityHigh      Priority = 1
	PriorityEmergency Priority = 2
)

type PushService interface {
	Push(ctx context.Context, title, message string, priority Priority) error
}
