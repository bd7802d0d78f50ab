package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sharpline/barberbook/internal/api"
	"github.com/sharpline/barberbook/pkg/logging"
)

// Wizard steps.
const (
	StepShop = 1 + iota
	StepService
	StepBarber
	StepSchedule
)

// Store holds the step cursor and the booking draft. All access goes through
// methods; callbacks from in-flight fetches and UI events interleave on it.
type Store struct {
	mu          sync.Mutex
	step        int
	draft       Draft
	depositRate float64
	draftID     string
	logger      *logging.Logger
}

func NewStore(depositRate float64, logger *logging.Logger) *Store {
	if depositRate <= 0 {
		depositRate = DefaultDepositRate
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		step:        StepShop,
		depositRate: depositRate,
		draftID:     uuid.NewString(),
		logger:      logger,
	}
}

// Step returns the current step cursor.
func (s *Store) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Draft returns a copy of the current draft.
func (s *Store) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// DraftID identifies this wizard session in logs.
func (s *Store) DraftID() string { return s.draftID }

// SelectShop sets the shop and clears every downstream selection: services
// and barbers are shop-scoped, so a shop change invalidates them.
func (s *Store) SelectShop(shop api.Barbershop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Shop = &shop
	s.draft.Service = nil
	s.draft.Barber = nil
	s.draft.Date = time.Time{}
	s.draft.TimeLabel = ""
	s.draft.DepositAmount = 0
	s.logger.Debug("shop selected", "draft_id", s.draftID, "shop_id", shop.ShopID)
}

// SelectService sets the service and recomputes the suggested deposit.
// Barber, date and time are kept: barbers are scoped to the shop, not the
// service, so an earlier choice stays valid.
func (s *Store) SelectService(svc api.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Service = &svc
	s.draft.DepositAmount = SuggestedDeposit(svc.Price, s.depositRate)
	s.logger.Debug("service selected", "draft_id", s.draftID, "service_id", svc.ServiceID, "suggested_deposit", s.draft.DepositAmount)
}

// SelectBarber sets the barber.
func (s *Store) SelectBarber(b api.Barber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Barber = &b
}

// SelectDate sets the calendar day. No cross-validation against the time.
func (s *Store) SelectDate(date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Date = date
}

// SelectTime sets the "HH:MM" label.
func (s *Store) SelectTime(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.TimeLabel = label
}

// SetNotes replaces the free-text notes.
func (s *Store) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Notes = notes
}

// SetDeposit flips the deposit flag and optionally overrides the amount.
// Passing amount <= 0 keeps the current (suggested) amount.
func (s *Store) SetDeposit(required bool, amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.DepositRequired = required
	if amount > 0 {
		s.draft.DepositAmount = amount
	}
}

// Advance moves to the next step if the current step's required selection is
// set. Returns false (cursor unchanged) otherwise.
func (s *Store) Advance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.step {
	case StepShop:
		if s.draft.Shop == nil {
			return false
		}
	case StepService:
		if s.draft.Service == nil {
			return false
		}
	case StepBarber:
		if s.draft.Barber == nil {
			return false
		}
	case StepSchedule:
		return false
	}
	s.step++
	return true
}

// Retreat moves one step back, flooring at the first step.
func (s *Store) Retreat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step > StepShop {
		s.step--
	}
}

// Reset discards the draft and returns to the first step. Called after a
// successful submission; gives the session a fresh draft id.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = Draft{}
	s.step = StepShop
	s.draftID = uuid.NewString()
}
