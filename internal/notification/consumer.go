package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/sandeepk26/orbis-backend/config"
	"github.com/sandeepk26/orbis-backend/internal/auth"
	"github.com/sandeepk26/orbis-backend/utils"
)

// bookingEvent mirrors the payload the booking service publishes.
type bookingEvent struct {
	BookingID  uint    `json:"booking_id"`
	CustomerID uint    `json:"customer_id"`
	WasherID   *uint   `json:"washer_id,omitempty"`
	FromStatus string  `json:"from_status"`
	ToStatus   string  `json:"to_status"`
	Amount     float64 `json:"amount"`
}

// Consumer turns booking events into in-app notifications, push messages
// and emails for the customer.
type Consumer struct {
	reader *kafka.Reader
	svc    Service
	users  auth.Repository
}

func NewConsumer(cfg *config.Config, svc Service, users auth.Repository) *Consumer {
	return &Consumer{
		reader: utils.NewEventReader(cfg, "notification-service"),
		svc:    svc,
		users:  users,
	}
}

// Run blocks reading events until ctx is cancelled. A nil reader (kafka not
// configured) returns immediately.
func (c *Consumer) Run(ctx context.Context) {
	if c.reader == nil {
		log.Println("kafka not configured, booking event consumer disabled")
		return
	}
	defer c.reader.Close()

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("booking event read failed: %v", err)
			continue
		}

		var ev bookingEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			log.Printf("malformed booking event %s: %v", string(msg.Key), err)
			continue
		}
		c.handle(ctx, ev)
	}
}

func (c *Consumer) handle(ctx context.Context, ev bookingEvent) {
	title, message := describe(ev)
	if title == "" {
		return
	}

	if err := c.svc.Notify(ctx, ev.CustomerID, nil, title, message, "booking"); err != nil {
		log.Printf("notify failed for booking %d: %v", ev.BookingID, err)
	}

	customer, err := c.users.FindUserByID(ev.CustomerID)
	if err != nil {
		log.Printf("customer lookup failed for booking %d: %v", ev.BookingID, err)
		return
	}
	utils.SendBulkEmailsAsync([]string{customer.Email}, title, message)
}

func describe(ev bookingEvent) (title, message string) {
	switch ev.ToStatus {
	case "pending":
		return "Booking received",
			fmt.Sprintf("Your booking #%d has been received and is awaiting confirmation.", ev.BookingID)
	case "confirmed":
		return "Booking confirmed",
			fmt.Sprintf("Your booking #%d is confirmed.", ev.BookingID)
	case "allocated":
		return "Washer assigned",
			fmt.Sprintf("A washer has been assigned to your booking #%d.", ev.BookingID)
	case "in_progress":
		return "Wash started",
			fmt.Sprintf("Work on your booking #%d has started.", ev.BookingID)
	case "completed":
		return "Wash completed",
			fmt.Sprintf("Your booking #%d is complete. Thank you!", ev.BookingID)
	case "cancelled":
		return "Booking cancelled",
			fmt.Sprintf("Your booking #%d has been cancelled.", ev.BookingID)
	}
	return "", ""
}
