package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sharpline/barberbook/internal/api"
	"github.com/sharpline/barberbook/internal/session"
	"github.com/sharpline/barberbook/internal/stub"
	"github.com/sharpline/barberbook/pkg/logging"
)

func newWizardApp(t *testing.T, input string) (*App, *strings.Builder) {
	t.Helper()
	store := stub.NewStore()
	store.Seed()
	handler := stub.NewHandler(store, "cli-secret", logging.Default())
	ts := httptest.NewServer(handler.Routes())
	t.Cleanup(ts.Close)

	client := api.NewClient(ts.URL, logging.Default())
	sess, err := session.NewResolver("cli-secret", client, logging.Default()).
		Resolve(context.Background(), "", "demo@barberbook.dev")
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}

	var out strings.Builder
	app := New(client, sess, 0, "USD", strings.NewReader(input), &out, logging.Default())
	return app, &out
}

func TestBookingWizardHappyPath(t *testing.T) {
	// shop 1 → service 1 → barber 1 → date 2 → time 3 → no notes →
	// no deposit → confirm.
	app, out := newWizardApp(t, "1\n1\n1\n2\n3\n\nn\ny\n")

	if err := app.BookingWizard(context.Background()); err != nil {
		t.Fatalf("BookingWizard() error = %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "Choose a barbershop:") {
		t.Fatalf("output missing shop step:\n%s", output)
	}
	if !strings.Contains(output, "Booking summary:") {
		t.Fatalf("output missing summary:\n%s", output)
	}
	if !strings.Contains(output, "Appointment booked") {
		t.Fatalf("output missing confirmation:\n%s", output)
	}
}

func TestBookingWizardCancelKeepsQuiet(t *testing.T) {
	app, out := newWizardApp(t, "q\n")

	if err := app.BookingWizard(context.Background()); err != nil {
		t.Fatalf("BookingWizard() error = %v", err)
	}
	if strings.Contains(out.String(), "Appointment booked") {
		t.Fatal("cancelled wizard must not book")
	}
}

func TestBookingWizardGoBackFromService(t *testing.T) {
	// Pick shop, go back, pick the other shop, then walk to completion.
	app, out := newWizardApp(t, "1\nb\n2\n1\n1\n1\n1\n\nn\ny\n")

	if err := app.BookingWizard(context.Background()); err != nil {
		t.Fatalf("BookingWizard() error = %v", err)
	}
	if !strings.Contains(out.String(), "Appointment booked") {
		t.Fatalf("output:\n%s", out.String())
	}
}

func TestBookingWizardGoBackFromScheduleStaysInStepLoop(t *testing.T) {
	store := stub.NewStore()
	store.Seed()
	handler := stub.NewHandler(store, "cli-secret", logging.Default())

	routes := handler.Routes()
	var shopFetches atomic.Int64
	counted := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/api/barbershops" {
			shopFetches.Add(1)
		}
		routes.ServeHTTP(w, r)
	})
	ts := httptest.NewServer(counted)
	t.Cleanup(ts.Close)

	client := api.NewClient(ts.URL, logging.Default())
	sess, err := session.NewResolver("cli-secret", client, logging.Default()).
		Resolve(context.Background(), "", "demo@barberbook.dev")
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}

	// shop 1 → service 1 → barber 1 → back from the date picker → barber 1
	// again → bad date input → date 2 → time 3 → no notes → no deposit →
	// confirm.
	input := "1\n1\n1\nb\n1\nx\n2\n3\n\nn\ny\n"
	var out strings.Builder
	app := New(client, sess, 0, "USD", strings.NewReader(input), &out, logging.Default())

	if err := app.BookingWizard(context.Background()); err != nil {
		t.Fatalf("BookingWizard() error = %v", err)
	}
	if !strings.Contains(out.String(), "Appointment booked") {
		t.Fatalf("output:\n%s", out.String())
	}
	if n := shopFetches.Load(); n != 1 {
		t.Fatalf("shop list fetched %d times, want 1", n)
	}
}

func TestClientHistoryScreen(t *testing.T) {
	store := stub.NewStore()
	store.Seed()

	barberUser := store.CreateUser(api.UserCreate{Email: "ade@barberbook.dev", Name: "Ade", Role: "barber"})
	shops := store.ListShops()
	barber := store.AddBarber(api.Barber{ShopID: shops[0].ShopID, UserID: barberUser.UserID, Name: "Ade"})
	appt := store.CreateAppointment(api.AppointmentCreate{
		ShopID:        shops[0].ShopID,
		BarberID:      barber.BarberID,
		ClientUserID:  "user_regular",
		ServiceID:     "service_1",
		ScheduledTime: time.Now().UTC(),
	})

	handler := stub.NewHandler(store, "cli-secret", logging.Default())
	ts := httptest.NewServer(handler.Routes())
	t.Cleanup(ts.Close)

	client := api.NewClient(ts.URL, logging.Default())
	sess, err := session.NewResolver("cli-secret", client, logging.Default()).
		Resolve(context.Background(), "", "ade@barberbook.dev")
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}

	// Appointment 1 → record a note.
	var out strings.Builder
	app := New(client, sess, 0, "USD", strings.NewReader("1\nlikes a low fade\n"), &out, logging.Default())
	if err := app.clientHistoryScreen(context.Background()); err != nil {
		t.Fatalf("clientHistoryScreen() error = %v", err)
	}
	if !strings.Contains(out.String(), "No visit history.") {
		t.Fatalf("first visit should show empty history:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Note saved.") {
		t.Fatalf("output:\n%s", out.String())
	}

	records := store.ListClientHistory("user_regular")
	if len(records) != 1 || records[0].Notes != "likes a low fade" {
		t.Fatalf("records = %+v", records)
	}
	if records[0].BarberID != barber.BarberID || records[0].AppointmentID != appt.AppointmentID {
		t.Fatalf("record = %+v", records[0])
	}

	// A second viewing shows the saved note.
	out.Reset()
	app = New(client, sess, 0, "USD", strings.NewReader("1\n\n"), &out, logging.Default())
	if err := app.clientHistoryScreen(context.Background()); err != nil {
		t.Fatalf("clientHistoryScreen() error = %v", err)
	}
	if !strings.Contains(out.String(), "likes a low fade") {
		t.Fatalf("output:\n%s", out.String())
	}
}
