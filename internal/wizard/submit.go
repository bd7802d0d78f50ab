package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sharpline/barberbook/internal/api"
	"github.com/sharpline/barberbook/internal/schedule"
	"github.com/sharpline/barberbook/internal/session"
	"github.com/sharpline/barberbook/pkg/logging"
)

var wizardTracer = otel.Tracer("barberbook.internal.wizard")

// ErrSubmitInFlight means a confirm is already running; the duplicate is
// rejected rather than creating a second appointment.
var ErrSubmitInFlight = errors.New("wizard: submission already in flight")

// Booker is the write side of the backend used by submission.
type Booker interface {
	CreateAppointment(ctx context.Context, req api.AppointmentCreate) (*api.Appointment, error)
	CreateDeposit(ctx context.Context, req api.DepositCreate) (*api.Deposit, error)
}

// SubmitResult reports a submission outcome. Appointment is always set on a
// nil error. DepositErr is set when the appointment was created but the
// deposit call failed afterward; the appointment is not rolled back (the
// server owns it once created) and callers must surface the partial failure.
type SubmitResult struct {
	Appointment *api.Appointment
	Deposit     *api.Deposit
	DepositErr  error
	ScheduledAt time.Time
}

// Submitter collapses a complete draft into the appointment POST and the
// optional deposit POST.
type Submitter struct {
	backend  Booker
	currency string
	logger   *logging.Logger

	mu         sync.Mutex
	submitting bool
}

func NewSubmitter(backend Booker, currency string, logger *logging.Logger) *Submitter {
	if backend == nil {
		panic("wizard: backend required")
	}
	if currency == "" {
		currency = "USD"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Submitter{backend: backend, currency: currency, logger: logger}
}

// Submitting reports whether a confirm is currently in flight. The UI
// disables the confirm control while true.
func (s *Submitter) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Submit validates the draft, books the appointment and, when requested,
// creates the deposit. On success the store is reset; on failure the draft is
// left intact so the user can retry without redoing earlier steps.
func (s *Submitter) Submit(ctx context.Context, sess *session.Session, store *Store) (*SubmitResult, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	s.submitting = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	ctx, span := wizardTracer.Start(ctx, "wizard.submit")
	defer span.End()

	if sess == nil || sess.UserID == "" {
		return nil, fmt.Errorf("%w: missing current user", ErrIncompleteDraft)
	}
	draft := store.Draft()
	if err := draft.Complete(); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("barberbook.shop_id", draft.Shop.ShopID),
		attribute.String("barberbook.barber_id", draft.Barber.BarberID),
		attribute.String("barberbook.service_id", draft.Service.ServiceID),
	)

	scheduledAt, err := schedule.Compose(draft.Date, draft.TimeLabel, shopLocation(draft.Shop))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// The suggested amount stays in the draft even when no deposit was
	// requested; the wire payload only carries it alongside the flag.
	depositAmount := 0.0
	if draft.DepositRequired {
		depositAmount = draft.DepositAmount
	}

	appt, err := s.backend.CreateAppointment(ctx, api.AppointmentCreate{
		ShopID:          draft.Shop.ShopID,
		BarberID:        draft.Barber.BarberID,
		ClientUserID:    sess.UserID,
		ServiceID:       draft.Service.ServiceID,
		ScheduledTime:   scheduledAt,
		Notes:           draft.Notes,
		DepositRequired: draft.DepositRequired,
		DepositAmount:   depositAmount,
	})
	if err != nil {
		span.RecordError(err)
		s.logger.Error("appointment creation failed", "error", err, "draft_id", store.DraftID())
		return nil, fmt.Errorf("submit booking: %w", err)
	}

	result := &SubmitResult{Appointment: appt, ScheduledAt: scheduledAt}

	if draft.DepositRequired {
		dep, depErr := s.backend.CreateDeposit(ctx, api.DepositCreate{
			AppointmentID: appt.AppointmentID,
			ClientUserID:  sess.UserID,
			Amount:        draft.DepositAmount,
			Currency:      s.currency,
			Provider:      "platform",
			Metadata: map[string]string{
				"shop_id":    draft.Shop.ShopID,
				"service_id": draft.Service.ServiceID,
			},
		})
		if depErr != nil {
			// The appointment exists server-side; report the partial failure
			// instead of masking it.
			span.RecordError(depErr)
			s.logger.Error("deposit creation failed after booking", "error", depErr,
				"appointment_id", appt.AppointmentID)
			result.DepositErr = depErr
		} else {
			result.Deposit = dep
		}
	}

	s.logger.Info("booking submitted",
		"appointment_id", appt.AppointmentID,
		"shop_id", draft.Shop.ShopID,
		"scheduled_time", scheduledAt,
		"deposit_required", draft.DepositRequired,
	)
	store.Reset()
	return result, nil
}

// shopLocation resolves the shop's IANA timezone, falling back to the local
// wall clock when the shop has none configured.
func shopLocation(shop *api.Barbershop) *time.Location {
	if shop == nil || shop.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(shop.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
