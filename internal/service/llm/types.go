package llm

import (
	"context"
)

type Question struct {
	Content string
}

type Answer struct {
	Content string
}

type Session interface {
	Ask(ctx context.Context, q Question) (Answer, error)
}

type Service interface {
	// AskOnce 单轮问答
	AskOnce(ctx context.Context, q Question) (Answer, error)
	BeginChat(ctx context.Context) (Session, error)
}
