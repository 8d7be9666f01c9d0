package payment

import (
	"context"
	"strings"
	"time"
)

// DemoDelay is time the demo verifier spends "talking" to the gateway
const DemoDelay = 2 * time.Second

// acceptedPrefix is demo acceptance rule: transaction ids starting with it
// are treated as confirmed by the bank
const acceptedPrefix = "2026"

// Verifier decides whether a payment transaction id is accepted
type Verifier interface {
	Verify(ctx context.Context, transactionID string) (bool, error)
}

// DemoVerifier is stand-in for a real payment gateway client. It waits a
// fixed delay, then accepts transaction ids by prefix. Not an auth check.
type DemoVerifier struct {
	delay time.Duration
}

// NewDemoVerifier creates new DemoVerifier with given gateway delay
func NewDemoVerifier(delay time.Duration) *DemoVerifier {
	return &DemoVerifier{delay: delay}
}

// Verify waits the configured delay and applies the acceptance rule
func (v *DemoVerifier) Verify(ctx context.Context, transactionID string) (bool, error) {
	t := time.NewTimer(v.delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-t.C:
	}

	return strings.HasPrefix(transactionID, acceptedPrefix), nil
}
