// Package wizard drives the multi-step booking flow: the step cursor, the
// accumulated draft, the per-step data fetches and the final submission.
package wizard

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sharpline/barberbook/internal/api"
)

// DefaultDepositRate is the suggested deposit share of the service price.
const DefaultDepositRate = 0.30

// ErrIncompleteDraft means required selections are missing; no network call
// is made in that case.
var ErrIncompleteDraft = errors.New("wizard: draft is incomplete")

// Draft is the in-memory, not-yet-submitted booking selection. It lives for
// the duration of the wizard and is discarded after a successful submission.
type Draft struct {
	Shop    *api.Barbershop
	Service *api.Service
	Barber  *api.Barber

	Date      time.Time // zero means unset; only the calendar day matters
	TimeLabel string    // "HH:MM", empty means unset

	Notes           string
	DepositRequired bool
	DepositAmount   float64
}

// Complete validates the draft for submission: shop, service, barber, date and
// time must all be set, and a required deposit needs a positive amount.
func (d *Draft) Complete() error {
	var missing []string
	if d.Shop == nil {
		missing = append(missing, "shop")
	}
	if d.Service == nil {
		missing = append(missing, "service")
	}
	if d.Barber == nil {
		missing = append(missing, "barber")
	}
	if d.Date.IsZero() {
		missing = append(missing, "date")
	}
	if d.TimeLabel == "" {
		missing = append(missing, "time")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteDraft, strings.Join(missing, ", "))
	}
	if d.DepositRequired && d.DepositAmount <= 0 {
		return fmt.Errorf("%w: deposit required but amount is not positive", ErrIncompleteDraft)
	}
	return nil
}

// SuggestedDeposit computes the deposit suggestion for a service price,
// rounded to 2 decimals.
func SuggestedDeposit(price, rate float64) float64 {
	if rate <= 0 {
		rate = DefaultDepositRate
	}
	return math.Round(price*rate*100) / 100
}
