package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"PremCast/internal/domain/models"
	xhttp "PremCast/pkg/http"
)

// RequestsHandler consumes projection requests from Kafka and routes them
// through the projector. Payloads are the same JSON body the HTTP endpoint
// accepts.
type RequestsHandler struct {
	topic     string
	projector *Projector
}

// NewRequestsHandler creates a handler bound to the request topic.
func NewRequestsHandler(topic string, projector *Projector) *RequestsHandler {
	return &RequestsHandler{topic: topic, projector: projector}
}

// Topic returns the topic this handler consumes.
func (h *RequestsHandler) Topic() string {
	return h.topic
}

// Handle decodes, defaults, and validates one request, then runs the
// projection. Malformed or invalid payloads are errors; the consumer's
// retry and DLQ policy decides what happens next.
func (h *RequestsHandler) Handle(ctx context.Context, data []byte) error {
	var req models.ProjectionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("decode projection request: %w", err)
	}
	if verrs := xhttp.ValidateStruct(&req); verrs != nil {
		return fmt.Errorf("invalid projection request: %v", verrs)
	}

	if _, err := h.projector.Run(ctx, &req, "kafka"); err != nil {
		return fmt.Errorf("run projection: %w", err)
	}
	return nil
}
