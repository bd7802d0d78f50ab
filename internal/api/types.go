// Package api contains the REST client for the barbershop booking backend
// and the JSON types it exchanges.
package api

import "time"

// Barber availability statuses as reported by the backend.
const (
	BarberAvailable   = "available"
	BarberBusy        = "busy"
	BarberUnavailable = "unavailable"
)

// Appointment statuses owned by the backend.
const (
	AppointmentScheduled  = "scheduled"
	AppointmentConfirmed  = "confirmed"
	AppointmentInProgress = "in_progress"
	AppointmentCompleted  = "completed"
	AppointmentCancelled  = "cancelled"
)

// Deposit statuses returned by the payments endpoint.
const (
	DepositPaid    = "paid"
	DepositPending = "pending"
)

// User is a platform account. Role is one of "client", "barber", "admin".
type User struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Picture      string    `json:"picture,omitempty"`
	Role         string    `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	BarbershopID string    `json:"barbershop_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserCreate is the payload for registering a user.
type UserCreate struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Phone string `json:"phone,omitempty"`
}

// Barbershop is a bookable shop.
type Barbershop struct {
	ShopID      string    `json:"shop_id"`
	OwnerUserID string    `json:"owner_user_id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Description string    `json:"description,omitempty"`
	Timezone    string    `json:"timezone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Service is a bookable service scoped to a shop. Price is a decimal currency
// amount, Duration is in minutes.
type Service struct {
	ServiceID   string    `json:"service_id"`
	ShopID      string    `json:"shop_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Duration    int       `json:"duration"`
	CreatedAt   time.Time `json:"created_at"`
}

// ServiceCreate is the payload for adding a service to a shop.
type ServiceCreate struct {
	ShopID      string  `json:"shop_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"`
}

// Barber is a staff member of a shop.
type Barber struct {
	BarberID     string    `json:"barber_id"`
	ShopID       string    `json:"shop_id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Specialties  []string  `json:"specialties"`
	Status       string    `json:"status"`
	Rating       float64   `json:"rating"`
	TotalReviews int       `json:"total_reviews"`
	CreatedAt    time.Time `json:"created_at"`
}

// Appointment is server-owned; the client creates it once and afterwards only
// reads it as history.
type Appointment struct {
	AppointmentID   string    `json:"appointment_id"`
	ShopID          string    `json:"shop_id"`
	BarberID        string    `json:"barber_id"`
	ClientUserID    string    `json:"client_user_id"`
	ServiceID       string    `json:"service_id"`
	ScheduledTime   time.Time `json:"scheduled_time"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	DepositRequired bool      `json:"deposit_required"`
	DepositAmount   float64   `json:"deposit_amount,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AppointmentCreate is the payload for booking an appointment.
type AppointmentCreate struct {
	ShopID          string    `json:"shop_id"`
	BarberID        string    `json:"barber_id"`
	ClientUserID    string    `json:"client_user_id"`
	ServiceID       string    `json:"service_id"`
	ScheduledTime   time.Time `json:"scheduled_time"`
	Notes           string    `json:"notes,omitempty"`
	DepositRequired bool      `json:"deposit_required"`
	DepositAmount   float64   `json:"deposit_amount,omitempty"`
}

// AppointmentFilter narrows ListAppointments. Zero fields are omitted.
type AppointmentFilter struct {
	ShopID       string
	BarberID     string
	ClientUserID string
	Status       string
}

// DepositCreate is the payload for creating a deposit against an appointment.
type DepositCreate struct {
	AppointmentID string            `json:"appointment_id"`
	ClientUserID  string            `json:"client_user_id"`
	Amount        float64           `json:"amount"`
	Currency      string            `json:"currency"`
	Provider      string            `json:"provider,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Deposit is the payments endpoint's view of a created deposit. PaymentURL is
// set when the provider wants the user to finish checkout in a browser.
type Deposit struct {
	DepositID     string    `json:"deposit_id"`
	AppointmentID string    `json:"appointment_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	PaymentURL    string    `json:"payment_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// LoyaltyBalance is the running point total for a user.
type LoyaltyBalance struct {
	UserID string `json:"user_id"`
	Points int    `json:"points"`
}

// LoyaltyTransaction is a single earn/redeem event.
type LoyaltyTransaction struct {
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Points        int       `json:"points"`
	Reason        string    `json:"reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ClientHistoryCreate records a visit outcome for a client: reference photos
// (base64), haircut preferences, and the barber's notes.
type ClientHistoryCreate struct {
	ClientUserID  string            `json:"client_user_id"`
	BarberID      string            `json:"barber_id"`
	AppointmentID string            `json:"appointment_id"`
	Photos        []string          `json:"photos,omitempty"`
	Preferences   map[string]string `json:"preferences,omitempty"`
	Notes         string            `json:"notes,omitempty"`
}

// ClientHistory is a stored visit record, newest first in listings.
type ClientHistory struct {
	HistoryID     string            `json:"history_id"`
	ClientUserID  string            `json:"client_user_id"`
	BarberID      string            `json:"barber_id"`
	AppointmentID string            `json:"appointment_id"`
	Photos        []string          `json:"photos,omitempty"`
	Preferences   map[string]string `json:"preferences,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// PushTokenCreate registers a device token. Platform is "ios", "android" or "web".
type PushTokenCreate struct {
	UserID   string `json:"user_id"`
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// LogEntry is a client-side log record shipped to the backend.
type LogEntry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Screen  string `json:"screen,omitempty"`
	UserID  string `json:"user_id,omitempty"`
}

// DashboardStats is the admin dashboard summary for a shop.
type DashboardStats struct {
	ShopID            string  `json:"shop_id"`
	TotalAppointments int     `json:"total_appointments"`
	TodayAppointments int     `json:"today_appointments"`
	TotalBarbers      int     `json:"total_barbers"`
	TotalServices     int     `json:"total_services"`
	TotalRevenue      float64 `json:"total_revenue"`
}
