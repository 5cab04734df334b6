package monitor

import (
	"context"

	"github.com/tradewatch/fxwatch/internal/schedule"
)

type EntryMonitorTask struct {
	entrySvc EntryService
}

func NewEntryMonitorTask(entrySvc EntryService) schedule.Task {
	return &EntryMonitorTask{
		entrySvc: entrySvc,
	}
}

func (t *EntryMonitorTask) Run(ctx context.Context) error {
	return t.entrySvc.Scan(ctx)
}

func (t *EntryMonitorTask) Name() string {
	return "entry monitor task"
}
