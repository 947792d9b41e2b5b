package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/b8shield/commerce-api/internal/commission"
	"github.com/b8shield/commerce-api/internal/common"
)

// ErrReplayedPayment is returned when a payment reference was already
// processed.
var ErrReplayedPayment = errors.New("payment reference already processed")

// Enqueuer abstracts the asynq client for tests.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// WebhookHandler receives payment provider callbacks. Each payment
// reference is processed at most once; the guard key lives in Redis so
// replays are cheap to reject before touching the database.
type WebhookHandler struct {
	Service   *Service
	R         *redis.Client
	Tasks     Enqueuer
	Queue     string
	MaxRetry  int
	ReplayTTL time.Duration
	Logger    zerolog.Logger
}

type webhookPayload struct {
	OrderID    string `json:"orderId"`
	PaymentRef string `json:"paymentRef"`
	Status     string `json:"status"`
}

// HandlePayment processes a payment callback.
func (h *WebhookHandler) HandlePayment(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if payload.OrderID == "" || payload.PaymentRef == "" {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "orderId and paymentRef are required", nil)
		return
	}
	if payload.Status != "succeeded" {
		// Failed and pending callbacks are acknowledged but ignored.
		h.Logger.Info().
			Str("order_id", payload.OrderID).
			Str("status", payload.Status).
			Msg("ignoring non-success payment callback")
		common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"ignored": true}})
		return
	}

	ord, err := h.process(r.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, ErrReplayedPayment):
			common.JSONError(w, http.StatusConflict, common.CodePaymentReplay, "payment reference already processed", nil)
		case errors.Is(err, ErrNotFound):
			common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "order not found", nil)
		default:
			h.Logger.Error().Err(err).Str("order_id", payload.OrderID).Msg("payment webhook failed")
			common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "could not process payment", nil)
		}
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": ord})
}

func (h *WebhookHandler) process(ctx context.Context, payload webhookPayload) (Order, error) {
	if h.Service == nil || h.R == nil {
		return Order{}, errors.New("webhook handler not configured")
	}
	guard := "payref:" + payload.PaymentRef
	ok, err := h.R.SetNX(ctx, guard, payload.OrderID, h.ReplayTTL).Result()
	if err != nil {
		return Order{}, fmt.Errorf("payment replay guard: %w", err)
	}
	if !ok {
		return Order{}, ErrReplayedPayment
	}

	ord, err := h.Service.MarkPaid(ctx, payload.OrderID, payload.PaymentRef)
	if err != nil {
		// Release the guard so the provider's retry can land once the
		// underlying issue clears.
		_ = h.R.Del(ctx, guard).Err()
		return Order{}, err
	}

	if h.Tasks != nil {
		task, err := commission.NewSettleTask(ord.ID)
		if err != nil {
			return Order{}, err
		}
		retries := h.MaxRetry
		if retries <= 0 {
			retries = 5
		}
		opts := []asynq.Option{asynq.MaxRetry(retries)}
		if h.Queue != "" {
			opts = append(opts, asynq.Queue(h.Queue))
		}
		if _, err := h.Tasks.EnqueueContext(ctx, task, opts...); err != nil {
			h.Logger.Error().Err(err).Str("order_id", ord.ID).Msg("could not enqueue settlement")
			return Order{}, fmt.Errorf("enqueue settlement: %w", err)
		}
	}

	h.Logger.Info().
		Str("order_id", ord.ID).
		Str("payment_ref", payload.PaymentRef).
		Msg("payment recorded, settlement enqueued")
	return ord, nil
}
