// Package render turns fetched lists and the current selection into terminal
// output. Functions here are pure: they hold no state and emit no events.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/sharpline/barberbook/internal/api"
	"github.com/sharpline/barberbook/internal/fetch"
	"github.com/sharpline/barberbook/internal/wizard"
)

const (
	markerSelected = "[x]"
	markerBlank    = "[ ]"
)

// Empty-state messages per step.
const (
	EmptyShops    = "No barbershops available."
	EmptyServices = "No services available."
	EmptyBarbers  = "No barbers available."
)

// ShopList renders step 1: selectable shop cards.
func ShopList(state fetch.State[[]api.Barbershop], selectedID string) string {
	if msg, done := listPreamble(state.Status, len(state.Data), EmptyShops); done {
		return msg
	}
	var b strings.Builder
	b.WriteString("Choose a barbershop:\n")
	for i, shop := range state.Data {
		fmt.Fprintf(&b, "%s %d. %s — %s (%s)\n",
			marker(shop.ShopID == selectedID), i+1, shop.Name, shop.Address, shop.Phone)
	}
	return b.String()
}

// ServiceList renders step 2: service cards with price, duration and the
// deposit suggestion.
func ServiceList(state fetch.State[[]api.Service], selectedID string) string {
	if msg, done := listPreamble(state.Status, len(state.Data), EmptyServices); done {
		return msg
	}
	var b strings.Builder
	b.WriteString("Choose a service:\n")
	for i, svc := range state.Data {
		fmt.Fprintf(&b, "%s %d. %s — $%.2f, %d min (suggested deposit $%.2f)\n",
			marker(svc.ServiceID == selectedID), i+1, svc.Name, svc.Price, svc.Duration,
			wizard.SuggestedDeposit(svc.Price, 0))
		if svc.Description != "" {
			fmt.Fprintf(&b, "      %s\n", svc.Description)
		}
	}
	return b.String()
}

// BarberList renders step 3: available barbers with rating and specialties.
func BarberList(state fetch.State[[]api.Barber], selectedID string) string {
	if msg, done := listPreamble(state.Status, len(state.Data), EmptyBarbers); done {
		return msg
	}
	var b strings.Builder
	b.WriteString("Choose a barber:\n")
	for i, barber := range state.Data {
		line := fmt.Sprintf("%s %d. %s — %.1f★", marker(barber.BarberID == selectedID), i+1, barberName(barber), barber.Rating)
		if len(barber.Specialties) > 0 {
			line += " (" + strings.Join(barber.Specialties, ", ") + ")"
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// DateStrip renders the 7-day date picker.
func DateStrip(days []time.Time, selected time.Time) string {
	var b strings.Builder
	b.WriteString("Pick a date:\n")
	for i, day := range days {
		sel := !selected.IsZero() && sameDay(day, selected)
		fmt.Fprintf(&b, "%s %d. %s\n", marker(sel), i+1, day.Format("Mon Jan 2"))
	}
	return b.String()
}

// TimeGrid renders the half-hour slot labels, four per row.
func TimeGrid(labels []string, selected string) string {
	var b strings.Builder
	b.WriteString("Pick a time:\n")
	for i, label := range labels {
		if label == selected {
			fmt.Fprintf(&b, " [%s]", label)
		} else {
			fmt.Fprintf(&b, "  %s ", label)
		}
		if (i+1)%4 == 0 {
			b.WriteString("\n")
		}
	}
	if len(labels)%4 != 0 {
		b.WriteString("\n")
	}
	return b.String()
}

// Summary renders the confirmation screen for a complete draft.
func Summary(draft wizard.Draft) string {
	var b strings.Builder
	b.WriteString("Booking summary:\n")
	if draft.Shop != nil {
		fmt.Fprintf(&b, "  Shop:    %s, %s\n", draft.Shop.Name, draft.Shop.Address)
	}
	if draft.Service != nil {
		fmt.Fprintf(&b, "  Service: %s ($%.2f, %d min)\n", draft.Service.Name, draft.Service.Price, draft.Service.Duration)
	}
	if draft.Barber != nil {
		fmt.Fprintf(&b, "  Barber:  %s\n", barberName(*draft.Barber))
	}
	if !draft.Date.IsZero() && draft.TimeLabel != "" {
		fmt.Fprintf(&b, "  When:    %s at %s\n", draft.Date.Format("Mon Jan 2 2006"), draft.TimeLabel)
	}
	if draft.Notes != "" {
		fmt.Fprintf(&b, "  Notes:   %s\n", draft.Notes)
	}
	if draft.DepositRequired {
		fmt.Fprintf(&b, "  Deposit: $%.2f\n", draft.DepositAmount)
	} else {
		b.WriteString("  Deposit: none\n")
	}
	return b.String()
}

// Outcome renders the post-submission message, including the deposit warning
// when the appointment was created but the deposit was not.
func Outcome(result *wizard.SubmitResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Appointment booked for %s.\n", result.ScheduledAt.Format("Monday, Jan 2 at 15:04"))
	switch {
	case result.DepositErr != nil:
		b.WriteString("Warning: your deposit could not be created. The shop may ask for it on arrival.\n")
	case result.Deposit != nil && result.Deposit.Status == api.DepositPaid:
		fmt.Fprintf(&b, "Deposit of $%.2f paid.\n", result.Deposit.Amount)
	case result.Deposit != nil:
		fmt.Fprintf(&b, "Deposit of $%.2f pending.\n", result.Deposit.Amount)
		if result.Deposit.PaymentURL != "" {
			fmt.Fprintf(&b, "Complete payment at: %s\n", result.Deposit.PaymentURL)
		}
	}
	return b.String()
}

// AppointmentList renders booking history rows.
func AppointmentList(appts []api.Appointment) string {
	if len(appts) == 0 {
		return "No appointments.\n"
	}
	var b strings.Builder
	for _, a := range appts {
		fmt.Fprintf(&b, "%s  %s  [%s]\n", a.ScheduledTime.Format("2006-01-02 15:04"), a.AppointmentID, a.Status)
	}
	return b.String()
}

// ClientHistoryList renders a client's visit records.
func ClientHistoryList(records []api.ClientHistory) string {
	if len(records) == 0 {
		return "No visit history.\n"
	}
	var b strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&b, "%s  %s", rec.CreatedAt.Format("2006-01-02"), rec.AppointmentID)
		if rec.Notes != "" {
			fmt.Fprintf(&b, "  %s", rec.Notes)
		}
		if len(rec.Photos) > 0 {
			fmt.Fprintf(&b, "  (%d photos)", len(rec.Photos))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// LoyaltySummary renders the points balance with recent transactions.
func LoyaltySummary(balance *api.LoyaltyBalance, txs []api.LoyaltyTransaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Loyalty points: %d\n", balance.Points)
	for _, tx := range txs {
		sign := "+"
		if tx.Points < 0 {
			sign = ""
		}
		fmt.Fprintf(&b, "  %s%d  %s (%s)\n", sign, tx.Points, tx.Reason, tx.CreatedAt.Format("2006-01-02"))
	}
	return b.String()
}

func listPreamble(status fetch.Status, n int, emptyMsg string) (string, bool) {
	switch status {
	case fetch.Idle, fetch.Loading:
		return "Loading...\n", true
	case fetch.Failed:
		return emptyMsg + "\n", true
	}
	if n == 0 {
		return emptyMsg + "\n", true
	}
	return "", false
}

func marker(selected bool) string {
	if selected {
		return markerSelected
	}
	return markerBlank
}

func barberName(b api.Barber) string {
	if b.Name != "" {
		return b.Name
	}
	return b.BarberID
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
