package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
	"github.com/dsokolov/procurement-assistant/internal/core/ports"
)

// RFPUseCase handles RFP intake. Creation publishes a structuring event
// so the worker can fill the requirement spec asynchronously.
type RFPUseCase struct {
	rfps  ports.RFPRepository
	queue ports.MessageQueue
}

func NewRFPUseCase(rfps ports.RFPRepository, queue ports.MessageQueue) *RFPUseCase {
	return &RFPUseCase{
		rfps:  rfps,
		queue: queue,
	}
}

type CreateRFPInput struct {
	Title            string                 `json:"title"`
	Description      string                 `json:"description"`
	Budget           *float64               `json:"budget"`
	Currency         string                 `json:"currency"`
	DeliveryDeadline *time.Time             `json:"delivery_deadline"`
	Requirements     domain.RequirementSpec `json:"requirements"`
}

func (uc *RFPUseCase) Create(ctx context.Context, input CreateRFPInput) (*domain.RFP, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "create rfp", fmt.Errorf("title and description are required"))
	}

	currency := normalizeCurrency(input.Currency)

	now := time.Now().UTC()
	rfp := &domain.RFP{
		Title:            input.Title,
		Description:      input.Description,
		Budget:           input.Budget,
		Currency:         currency,
		DeliveryDeadline: input.DeliveryDeadline,
		Status:           domain.StatusDraft,
		Requirements:     input.Requirements,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := uc.rfps.Create(ctx, rfp); err != nil {
		return nil, fmt.Errorf("create rfp: %w", err)
	}

	// Structuring is best-effort: a queue outage must not fail intake.
	if rfp.Requirements.Empty() {
		if err := uc.queue.PublishRFPCreated(ctx, rfp.ID); err != nil {
			slog.Warn("rfp_structure_event_failed", "rfp_id", rfp.ID, "error", err)
		}
	}

	return rfp, nil
}

func (uc *RFPUseCase) Update(ctx context.Context, id int64, update domain.RFPUpdate) (*domain.RFP, error) {
	if update.Status != nil && !update.Status.Valid() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "update rfp", fmt.Errorf("unknown status %q", *update.Status))
	}
	if update.Currency != nil {
		normalized := normalizeCurrency(*update.Currency)
		update.Currency = &normalized
	}

	rfp, err := uc.rfps.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("update rfp: %w", err)
	}
	return rfp, nil
}
