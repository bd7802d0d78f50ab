package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sharpline/barberbook/pkg/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(ts.URL, logging.Default())
}

func TestListBarbershops(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/api/barbershops" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"shop_id":"shop_1","name":"Fade Factory","address":"12 High St","phone":"555-0101"}]`))
	})

	shops, err := client.ListBarbershops(context.Background())
	if err != nil {
		t.Fatalf("ListBarbershops() error = %v", err)
	}
	if len(shops) != 1 {
		t.Fatalf("len(shops) = %d, want 1", len(shops))
	}
	if shops[0].ShopID != "shop_1" || shops[0].Name != "Fade Factory" {
		t.Fatalf("shop = %+v", shops[0])
	}
}

func TestListServicesSendsShopID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/services" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("shop_id") != "shop_1" {
			t.Fatalf("shop_id = %s", r.URL.Query().Get("shop_id"))
		}
		_, _ = w.Write([]byte(`[{"service_id":"service_1","shop_id":"shop_1","name":"Skin Fade","price":35,"duration":45}]`))
	})

	services, err := client.ListServices(context.Background(), "shop_1")
	if err != nil {
		t.Fatalf("ListServices() error = %v", err)
	}
	if len(services) != 1 {
		t.Fatalf("len(services) = %d, want 1", len(services))
	}
	if services[0].Price != 35 || services[0].Duration != 45 {
		t.Fatalf("service = %+v", services[0])
	}
}

func TestCreateAppointmentPostsJSON(t *testing.T) {
	scheduled := time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/appointments" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("content type = %s", ct)
		}
		_, _ = w.Write([]byte(`{"appointment_id":"appt_1","shop_id":"shop_1","status":"scheduled","scheduled_time":"2025-06-10T14:30:00Z"}`))
	})

	appt, err := client.CreateAppointment(context.Background(), AppointmentCreate{
		ShopID:        "shop_1",
		BarberID:      "barber_1",
		ClientUserID:  "user_1",
		ServiceID:     "service_1",
		ScheduledTime: scheduled,
	})
	if err != nil {
		t.Fatalf("CreateAppointment() error = %v", err)
	}
	if appt.AppointmentID != "appt_1" {
		t.Fatalf("appointment id = %s", appt.AppointmentID)
	}
	if !appt.ScheduledTime.Equal(scheduled) {
		t.Fatalf("scheduled time = %s", appt.ScheduledTime)
	}
}

func TestCreateDeposit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/payments/deposits" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"deposit_id":"dep_1","appointment_id":"appt_1","amount":45,"currency":"USD","status":"pending","payment_url":"https://pay.example.com/dep_1"}`))
	})

	dep, err := client.CreateDeposit(context.Background(), DepositCreate{
		AppointmentID: "appt_1",
		ClientUserID:  "user_1",
		Amount:        45,
		Currency:      "USD",
	})
	if err != nil {
		t.Fatalf("CreateDeposit() error = %v", err)
	}
	if dep.Status != DepositPending {
		t.Fatalf("status = %s, want pending", dep.Status)
	}
	if dep.PaymentURL == "" {
		t.Fatal("expected payment_url")
	}
}

func TestFindUserByEmailNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.FindUserByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetBarbershop404MapsToErrNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := client.GetBarbershop(context.Background(), "shop_missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestServerErrorIncludesStatusAndBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream failed", http.StatusBadGateway)
	})

	_, err := client.ListBarbers(context.Background(), "shop_1")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestListAppointmentsFilter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("client_user_id") != "user_1" {
			t.Fatalf("client_user_id = %s", q.Get("client_user_id"))
		}
		if q.Get("status") != "scheduled" {
			t.Fatalf("status = %s", q.Get("status"))
		}
		if q.Has("shop_id") {
			t.Fatal("empty filter fields should be omitted")
		}
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.ListAppointments(context.Background(), AppointmentFilter{
		ClientUserID: "user_1",
		Status:       AppointmentScheduled,
	})
	if err != nil {
		t.Fatalf("ListAppointments() error = %v", err)
	}
}

func TestMetricsCountOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}).WithMetrics(metrics)

	if _, err := client.ListBarbershops(context.Background()); err != nil {
		t.Fatalf("first call error = %v", err)
	}
	if _, err := client.ListBarbershops(context.Background()); err == nil {
		t.Fatal("second call should fail")
	}

	ok := testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("list_barbershops", "ok"))
	failed := testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("list_barbershops", "error"))
	if ok != 1 || failed != 1 {
		t.Fatalf("counters ok=%v error=%v, want 1/1", ok, failed)
	}
}
