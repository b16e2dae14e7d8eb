package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"tablebook/internal/adapter/logger"
	"tablebook/internal/interfaces"
)

// NotificationHandler renders the confirmation message for a newly created
// reservation. It stands in for an outbound mail gateway.
type NotificationHandler struct {
	logger logger.Logger
}

func NewNotificationHandler(logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
	}
}

func (h *NotificationHandler) HandleReservationCreated(ctx context.Context, body []byte) error {
	var msg interfaces.ReservationCreatedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse reservation notification", "", nil, err)
		return err
	}

	h.logger.Info("notification_sent", "Reservation confirmation sent", "", map[string]interface{}{
		"reservation_id": msg.ReservationID,
		"customer_email": msg.CustomerEmail,
		"subject":        "Reservation received",
		"body":           renderConfirmation(msg),
	})

	return nil
}

func renderConfirmation(msg interfaces.ReservationCreatedMessage) string {
	return fmt.Sprintf("Hi %s, we have received your reservation for %d on %s. We will confirm it shortly.",
		msg.CustomerName, msg.PartySize,
		msg.ReservationDate.Format("January 2, 2006 at 3:04 PM"))
}
