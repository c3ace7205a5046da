package core

import "context"

// Destination identifies a chat that can receive messages.
type Destination int64

// Quoter fetches the last traded price for a trading pair.
type Quoter interface {
	LastQuote(ctx context.Context, pair string) (float64, error)
}

// Messenger delivers a text message to a destination.
// Delivery failures are reported as *DeliveryError so callers can
// distinguish permanent rejections from transient hiccups.
type Messenger interface {
	Send(dest Destination, text string) error
}

type MessengerWithStart interface {
	Messenger
	Start()
}
