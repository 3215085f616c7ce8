package service

import (
	"context"
	"log/slog"
	"time"

	"FinAI_Community/internal/metrics"
	"FinAI_Community/internal/model"
	"FinAI_Community/internal/pkg"
)

type Sender func(ctx context.Context, ob *model.ApplicationOutbox) error

// OutboxRelayer 申请事件投递器
type OutboxRelayer struct {
	repo      OutboxStore
	batchSize int
	maxRetry  int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(repo OutboxStore, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      repo,
		batchSize: 200,
		maxRetry:  5,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// drainOnce 从数据库读取一批事件交给 sender，返回成功条数
func (r *OutboxRelayer) drainOnce(ctx context.Context) int {
	rows, err := r.repo.List(ctx, r.batchSize, r.maxRetry)
	if err != nil {
		slog.ErrorContext(ctx, "outbox query failed", "err", err)
		return 0
	}
	sent := 0
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			slog.WarnContext(ctx, "outbox send failed", "id", ob.ID, "retry", ob.Retry, "err", err)
			metrics.OutboxEvents.WithLabelValues("failed").Inc()
			if uerr := r.repo.RetryUpdate(ctx, ob.ID); uerr != nil {
				slog.ErrorContext(ctx, "outbox retry update failed", "id", ob.ID, "err", uerr)
			}
			continue
		}
		if uerr := r.repo.SuccessUpdate(ctx, ob.ID); uerr != nil {
			slog.ErrorContext(ctx, "outbox success update failed", "id", ob.ID, "err", uerr)
			continue
		}
		metrics.OutboxEvents.WithLabelValues("sent").Inc()
		sent++
	}
	return sent
}

// KafkaSender 以申请 id 作为分区 key，保证同一申请的事件有序
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.ApplicationOutbox) error {
		return p.Send(ctx, pkg.MakeKeyFromID(ob.ApplicationID), ob.EventType, []byte(ob.Payload))
	}
}

// LogSender 未配置 kafka 时使用
func LogSender(ctx context.Context, ob *model.ApplicationOutbox) error {
	slog.InfoContext(ctx, "outbox event", "type", ob.EventType, "application_id", ob.ApplicationID, "payload", ob.Payload)
	return nil
}
