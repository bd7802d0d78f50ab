package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sharpline/barberbook/internal/api"
	"github.com/sharpline/barberbook/internal/fetch"
	"github.com/sharpline/barberbook/internal/wizard"
)

func TestShopListEmptyState(t *testing.T) {
	out := ShopList(fetch.LoadedState([]api.Barbershop{}), "")
	if !strings.Contains(out, EmptyShops) {
		t.Fatalf("output = %q, want empty-state message", out)
	}
}

func TestShopListFailedStateRendersEmptyMessage(t *testing.T) {
	out := ShopList(fetch.FailedState[[]api.Barbershop](errors.New("down")), "")
	if !strings.Contains(out, EmptyShops) {
		t.Fatalf("output = %q, want empty-state message on failure", out)
	}
}

func TestShopListMarksSelection(t *testing.T) {
	shops := []api.Barbershop{
		{ShopID: "shop_a", Name: "Fade Factory", Address: "12 High St", Phone: "555-0101"},
		{ShopID: "shop_b", Name: "The Chair", Address: "3 Main Rd", Phone: "555-0102"},
	}
	out := ShopList(fetch.LoadedState(shops), "shop_b")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], markerBlank) {
		t.Fatalf("unselected shop line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], markerSelected) {
		t.Fatalf("selected shop line = %q", lines[2])
	}
	if !strings.Contains(lines[2], "The Chair") {
		t.Fatalf("line = %q", lines[2])
	}
}

func TestServiceListShowsSuggestedDeposit(t *testing.T) {
	services := []api.Service{{ServiceID: "service_1", Name: "Skin Fade", Price: 100, Duration: 45}}
	out := ServiceList(fetch.LoadedState(services), "")

	if !strings.Contains(out, "$100.00") || !strings.Contains(out, "45 min") {
		t.Fatalf("output = %q", out)
	}
	if !strings.Contains(out, "suggested deposit $30.00") {
		t.Fatalf("output = %q, want 30%% deposit suggestion", out)
	}
}

func TestBarberListShowsRatingAndSpecialties(t *testing.T) {
	barbers := []api.Barber{{
		BarberID:    "barber_1",
		Name:        "Ade",
		Rating:      4.8,
		Specialties: []string{"fades", "beards"},
	}}
	out := BarberList(fetch.LoadedState(barbers), "")

	if !strings.Contains(out, "Ade") || !strings.Contains(out, "4.8") {
		t.Fatalf("output = %q", out)
	}
	if !strings.Contains(out, "fades, beards") {
		t.Fatalf("output = %q", out)
	}
}

func TestTimeGridHighlightsSelection(t *testing.T) {
	out := TimeGrid([]string{"09:00", "09:30", "10:00"}, "09:30")

	if !strings.Contains(out, "[09:30]") {
		t.Fatalf("output = %q", out)
	}
	if strings.Contains(out, "[09:00]") {
		t.Fatalf("output = %q, only the chosen slot is highlighted", out)
	}
}

func TestDateStripMarksSelectedDay(t *testing.T) {
	days := []time.Time{
		time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
	}
	out := DateStrip(days, days[1])

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.HasPrefix(lines[2], markerSelected) {
		t.Fatalf("selected day line = %q", lines[2])
	}
}

func TestOutcomeWithDepositFailureWarns(t *testing.T) {
	result := &wizard.SubmitResult{
		Appointment: &api.Appointment{AppointmentID: "appt_1"},
		DepositErr:  errors.New("payments down"),
		ScheduledAt: time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC),
	}
	out := Outcome(result)

	if !strings.Contains(out, "Appointment booked") {
		t.Fatalf("output = %q", out)
	}
	if !strings.Contains(out, "deposit could not be created") {
		t.Fatalf("output = %q, deposit failure must not be masked", out)
	}
}

func TestOutcomeSurfacesPaymentLink(t *testing.T) {
	result := &wizard.SubmitResult{
		Appointment: &api.Appointment{AppointmentID: "appt_1"},
		Deposit: &api.Deposit{
			Amount:     45,
			Status:     api.DepositPending,
			PaymentURL: "https://pay.example.com/dep_1",
		},
		ScheduledAt: time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC),
	}
	out := Outcome(result)

	if !strings.Contains(out, "https://pay.example.com/dep_1") {
		t.Fatalf("output = %q, want payment link", out)
	}
}
