package commission

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/b8shield/commerce-api/internal/lock"
)

// TaskTypeSettle is the asynq task type for commission settlement.
const TaskTypeSettle = "commission:settle"

// SettlePayload is the settle task body.
type SettlePayload struct {
	OrderID string `json:"order_id"`
}

// NewSettleTask builds a settle task for an order.
func NewSettleTask(orderID string) (*asynq.Task, error) {
	payload, err := json.Marshal(SettlePayload{OrderID: orderID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSettle, payload), nil
}

// TaskHandler processes settle tasks on the worker. A per-order Redis
// lock keeps two workers from racing the same order; the ledger's
// unique index is the backstop.
type TaskHandler struct {
	Settler *Settler
	Locker  lock.Locker
	LockTTL time.Duration
	Logger  zerolog.Logger
}

// ProcessTask settles the order named in the payload. Transient errors
// propagate so asynq retries; a malformed payload is dropped.
func (h *TaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload SettlePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.Logger.Error().Err(err).Msg("malformed settle payload")
		return fmt.Errorf("unmarshal settle payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.OrderID == "" {
		return fmt.Errorf("settle payload missing order id: %w", asynq.SkipRetry)
	}
	settle := func(ctx context.Context) error {
		_, err := h.Settler.Settle(ctx, payload.OrderID)
		return err
	}
	var err error
	if h.Locker.R != nil {
		err = h.Locker.WithLock(ctx, "settle:"+payload.OrderID, h.LockTTL, settle)
	} else {
		err = settle(ctx)
	}
	if err != nil {
		return fmt.Errorf("settle order %s: %w", payload.OrderID, err)
	}
	return nil
}
