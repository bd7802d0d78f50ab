// Package stub is an in-memory stand-in for the barbershop booking backend.
// It backs cmd/stubserver and the module's end-to-end tests; the production
// backend is owned elsewhere.
package stub

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sharpline/barberbook/internal/api"
)

// PointsPerCompletedAppointment is the loyalty award granted when an
// appointment reaches the completed status.
const PointsPerCompletedAppointment = 10

// Store holds all backend state in memory.
type Store struct {
	mu           sync.Mutex
	users        map[string]api.User
	shops        map[string]api.Barbershop
	services     map[string]api.Service
	barbers      map[string]api.Barber
	appointments map[string]api.Appointment
	deposits     map[string]api.Deposit
	points       map[string]int
	transactions map[string][]api.LoyaltyTransaction
	history      map[string][]api.ClientHistory
	pushTokens   map[string][]api.PushTokenCreate
	logs         []api.LogEntry
}

func NewStore() *Store {
	return &Store{
		users:        make(map[string]api.User),
		shops:        make(map[string]api.Barbershop),
		services:     make(map[string]api.Service),
		barbers:      make(map[string]api.Barber),
		appointments: make(map[string]api.Appointment),
		deposits:     make(map[string]api.Deposit),
		points:       make(map[string]int),
		transactions: make(map[string][]api.LoyaltyTransaction),
		history:      make(map[string][]api.ClientHistory),
		pushTokens:   make(map[string][]api.PushTokenCreate),
	}
}

func newID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + hex[:12]
}

func (s *Store) CreateUser(req api.UserCreate) api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	role := req.Role
	if role == "" {
		role = "client"
	}
	user := api.User{
		UserID:    newID("user"),
		Email:     req.Email,
		Name:      req.Name,
		Role:      role,
		Phone:     req.Phone,
		CreatedAt: time.Now().UTC(),
	}
	s.users[user.UserID] = user
	return user
}

func (s *Store) GetUser(id string) (api.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *Store) FindUsers(email, role string) []api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.User{}
	for _, u := range s.users {
		if email != "" && u.Email != email {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func (s *Store) AddShop(shop api.Barbershop) api.Barbershop {
	s.mu.Lock()
	defer s.mu.Unlock()
	if shop.ShopID == "" {
		shop.ShopID = newID("shop")
	}
	if shop.CreatedAt.IsZero() {
		shop.CreatedAt = time.Now().UTC()
	}
	s.shops[shop.ShopID] = shop
	return shop
}

func (s *Store) GetShop(id string) (api.Barbershop, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shop, ok := s.shops[id]
	return shop, ok
}

func (s *Store) ListShops() []api.Barbershop {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.Barbershop{}
	for _, shop := range s.shops {
		out = append(out, shop)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShopID < out[j].ShopID })
	return out
}

func (s *Store) AddService(req api.ServiceCreate) api.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc := api.Service{
		ServiceID:   newID("service"),
		ShopID:      req.ShopID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		CreatedAt:   time.Now().UTC(),
	}
	s.services[svc.ServiceID] = svc
	return svc
}

func (s *Store) ListServices(shopID string) []api.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.Service{}
	for _, svc := range s.services {
		if shopID != "" && svc.ShopID != shopID {
			continue
		}
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ServiceID < out[j].ServiceID })
	return out
}

func (s *Store) AddBarber(b api.Barber) api.Barber {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.BarberID == "" {
		b.BarberID = newID("barber")
	}
	if b.Status == "" {
		b.Status = api.BarberAvailable
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	s.barbers[b.BarberID] = b
	return b
}

func (s *Store) ListBarbers(shopID string) []api.Barber {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.Barber{}
	for _, b := range s.barbers {
		if shopID != "" && b.ShopID != shopID {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BarberID < out[j].BarberID })
	return out
}

func (s *Store) UpdateBarberStatus(id, status string) (api.Barber, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.barbers[id]
	if !ok {
		return api.Barber{}, false
	}
	b.Status = status
	s.barbers[id] = b
	return b, true
}

func (s *Store) CreateAppointment(req api.AppointmentCreate) api.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	appt := api.Appointment{
		AppointmentID:   newID("appt"),
		ShopID:          req.ShopID,
		BarberID:        req.BarberID,
		ClientUserID:    req.ClientUserID,
		ServiceID:       req.ServiceID,
		ScheduledTime:   req.ScheduledTime,
		Status:          api.AppointmentScheduled,
		Notes:           req.Notes,
		DepositRequired: req.DepositRequired,
		DepositAmount:   req.DepositAmount,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.appointments[appt.AppointmentID] = appt
	return appt
}

func (s *Store) ListAppointments(filter api.AppointmentFilter) []api.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.Appointment{}
	for _, a := range s.appointments {
		if filter.ShopID != "" && a.ShopID != filter.ShopID {
			continue
		}
		if filter.BarberID != "" && a.BarberID != filter.BarberID {
			continue
		}
		if filter.ClientUserID != "" && a.ClientUserID != filter.ClientUserID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledTime.Before(out[j].ScheduledTime) })
	return out
}

// UpdateAppointmentStatus moves an appointment through its lifecycle and
// awards loyalty points when it completes.
func (s *Store) UpdateAppointmentStatus(id, status string) (api.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return api.Appointment{}, false
	}
	wasCompleted := a.Status == api.AppointmentCompleted
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	s.appointments[id] = a

	if status == api.AppointmentCompleted && !wasCompleted {
		s.awardPointsLocked(a.ClientUserID, PointsPerCompletedAppointment, "appointment completed")
	}
	return a, true
}

func (s *Store) DeleteAppointment(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[id]; !ok {
		return false
	}
	delete(s.appointments, id)
	return true
}

// CreateDeposit records a deposit for an existing appointment. Deposits start
// pending with a demo payment link, mirroring a provider checkout flow.
func (s *Store) CreateDeposit(req api.DepositCreate) (api.Deposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[req.AppointmentID]; !ok {
		return api.Deposit{}, fmt.Errorf("appointment %s not found", req.AppointmentID)
	}
	if req.Amount <= 0 {
		return api.Deposit{}, fmt.Errorf("deposit amount must be positive")
	}
	dep := api.Deposit{
		DepositID:     newID("dep"),
		AppointmentID: req.AppointmentID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Status:        api.DepositPending,
		PaymentURL:    "/demo/deposits/" + req.AppointmentID,
		CreatedAt:     time.Now().UTC(),
	}
	s.deposits[dep.DepositID] = dep
	return dep, nil
}

func (s *Store) LoyaltyBalance(userID string) api.LoyaltyBalance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return api.LoyaltyBalance{UserID: userID, Points: s.points[userID]}
}

func (s *Store) LoyaltyTransactions(userID string) []api.LoyaltyTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs := make([]api.LoyaltyTransaction, len(s.transactions[userID]))
	copy(txs, s.transactions[userID])
	return txs
}

func (s *Store) RedeemPoints(userID string, points int) (api.LoyaltyBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if points <= 0 {
		return api.LoyaltyBalance{}, fmt.Errorf("points must be positive")
	}
	if s.points[userID] < points {
		return api.LoyaltyBalance{}, fmt.Errorf("insufficient points: have %d, want %d", s.points[userID], points)
	}
	s.awardPointsLocked(userID, -points, "redeemed")
	return api.LoyaltyBalance{UserID: userID, Points: s.points[userID]}, nil
}

func (s *Store) awardPointsLocked(userID string, points int, reason string) {
	s.points[userID] += points
	s.transactions[userID] = append([]api.LoyaltyTransaction{{
		TransactionID: newID("loy"),
		UserID:        userID,
		Points:        points,
		Reason:        reason,
		CreatedAt:     time.Now().UTC(),
	}}, s.transactions[userID]...)
}

// AddClientHistory stores a visit record. The appointment must exist.
func (s *Store) AddClientHistory(req api.ClientHistoryCreate) (api.ClientHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[req.AppointmentID]; !ok {
		return api.ClientHistory{}, fmt.Errorf("appointment %s not found", req.AppointmentID)
	}
	hist := api.ClientHistory{
		HistoryID:     newID("hist"),
		ClientUserID:  req.ClientUserID,
		BarberID:      req.BarberID,
		AppointmentID: req.AppointmentID,
		Photos:        req.Photos,
		Preferences:   req.Preferences,
		Notes:         req.Notes,
		CreatedAt:     time.Now().UTC(),
	}
	s.history[req.ClientUserID] = append([]api.ClientHistory{hist}, s.history[req.ClientUserID]...)
	return hist, nil
}

func (s *Store) ListClientHistory(clientUserID string) []api.ClientHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.ClientHistory, len(s.history[clientUserID]))
	copy(out, s.history[clientUserID])
	return out
}

func (s *Store) RegisterPushToken(req api.PushTokenCreate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushTokens[req.UserID] = append(s.pushTokens[req.UserID], req)
}

func (s *Store) AppendLog(entry api.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
}

// Stats summarizes a shop for the admin dashboard.
func (s *Store) Stats(shopID string) api.DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := api.DashboardStats{ShopID: shopID}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	prices := make(map[string]float64)
	for _, svc := range s.services {
		if svc.ShopID == shopID {
			stats.TotalServices++
		}
		prices[svc.ServiceID] = svc.Price
	}
	for _, b := range s.barbers {
		if b.ShopID == shopID {
			stats.TotalBarbers++
		}
	}
	for _, a := range s.appointments {
		if a.ShopID != shopID {
			continue
		}
		stats.TotalAppointments++
		if a.ScheduledTime.UTC().Truncate(24 * time.Hour).Equal(today) {
			stats.TodayAppointments++
		}
		if a.Status == api.AppointmentCompleted {
			stats.TotalRevenue += prices[a.ServiceID]
		}
	}
	return stats
}

// Seed loads a small demo data set: two shops with services and barbers and
// one client account.
func (s *Store) Seed() {
	client := s.CreateUser(api.UserCreate{Email: "demo@barberbook.dev", Name: "Demo Client"})

	shopA := s.AddShop(api.Barbershop{Name: "Fade Factory", Address: "12 High St", Phone: "555-0101", Timezone: "UTC"})
	shopB := s.AddShop(api.Barbershop{Name: "The Chair", Address: "3 Main Rd", Phone: "555-0102", Timezone: "UTC"})

	s.AddService(api.ServiceCreate{ShopID: shopA.ShopID, Name: "Skin Fade", Price: 35, Duration: 45})
	s.AddService(api.ServiceCreate{ShopID: shopA.ShopID, Name: "Beard Trim", Price: 15, Duration: 20})
	s.AddService(api.ServiceCreate{ShopID: shopB.ShopID, Name: "Classic Cut", Price: 25, Duration: 30})

	s.AddBarber(api.Barber{ShopID: shopA.ShopID, Name: "Ade", Rating: 4.8, Specialties: []string{"fades"}})
	s.AddBarber(api.Barber{ShopID: shopA.ShopID, Name: "Marco", Rating: 4.5, Status: api.BarberBusy})
	s.AddBarber(api.Barber{ShopID: shopB.ShopID, Name: "Lena", Rating: 4.9, Specialties: []string{"classic cuts", "beards"}})

	s.mu.Lock()
	s.awardPointsLocked(client.UserID, 20, "welcome bonus")
	s.mu.Unlock()
}
