package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sharpline/barberbook/pkg/logging"
)

const defaultTimeout = 15 * time.Second

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("api: not found")

// Client wraps REST calls to the barbershop booking backend. It issues plain
// HTTP with a transport timeout; no retries, no caching.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *Metrics
	logger     *logging.Logger
}

// NewClient constructs a backend REST client.
func NewClient(baseURL string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// WithMetrics attaches request counters. Safe to skip; observation is nil-tolerant.
func (c *Client) WithMetrics(m *Metrics) *Client {
	c.metrics = m
	return c
}

// WithTimeout overrides the transport timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.httpClient.Timeout = d
	return c
}

// ListBarbershops returns all registered shops.
func (c *Client) ListBarbershops(ctx context.Context) ([]Barbershop, error) {
	var shops []Barbershop
	err := c.doJSON(ctx, http.MethodGet, "/api/barbershops", nil, &shops)
	c.metrics.ObserveRequest("list_barbershops", err)
	if err != nil {
		return nil, fmt.Errorf("list barbershops: %w", err)
	}
	return shops, nil
}

// GetBarbershop fetches a single shop.
func (c *Client) GetBarbershop(ctx context.Context, shopID string) (*Barbershop, error) {
	var shop Barbershop
	err := c.doJSON(ctx, http.MethodGet, "/api/barbershops/"+url.PathEscape(shopID), nil, &shop)
	c.metrics.ObserveRequest("get_barbershop", err)
	if err != nil {
		return nil, fmt.Errorf("get barbershop: %w", err)
	}
	return &shop, nil
}

// ListServices returns the services offered by a shop.
func (c *Client) ListServices(ctx context.Context, shopID string) ([]Service, error) {
	q := url.Values{}
	q.Set("shop_id", shopID)

	var services []Service
	err := c.doJSON(ctx, http.MethodGet, "/api/services?"+q.Encode(), nil, &services)
	c.metrics.ObserveRequest("list_services", err)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

// CreateService adds a service to a shop.
func (c *Client) CreateService(ctx context.Context, req ServiceCreate) (*Service, error) {
	var svc Service
	err := c.doJSON(ctx, http.MethodPost, "/api/services", req, &svc)
	c.metrics.ObserveRequest("create_service", err)
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return &svc, nil
}

// ListBarbers returns all barbers of a shop regardless of status. Callers that
// only want bookable barbers filter on Status themselves.
func (c *Client) ListBarbers(ctx context.Context, shopID string) ([]Barber, error) {
	q := url.Values{}
	q.Set("shop_id", shopID)

	var barbers []Barber
	err := c.doJSON(ctx, http.MethodGet, "/api/barbers?"+q.Encode(), nil, &barbers)
	c.metrics.ObserveRequest("list_barbers", err)
	if err != nil {
		return nil, fmt.Errorf("list barbers: %w", err)
	}
	return barbers, nil
}

// UpdateBarberStatus flips a barber's availability status.
func (c *Client) UpdateBarberStatus(ctx context.Context, barberID, status string) (*Barber, error) {
	body := map[string]string{"status": status}
	var barber Barber
	err := c.doJSON(ctx, http.MethodPut, "/api/barbers/"+url.PathEscape(barberID), body, &barber)
	c.metrics.ObserveRequest("update_barber_status", err)
	if err != nil {
		return nil, fmt.Errorf("update barber status: %w", err)
	}
	return &barber, nil
}

// CreateAppointment books an appointment and returns the server-assigned record.
func (c *Client) CreateAppointment(ctx context.Context, req AppointmentCreate) (*Appointment, error) {
	var appt Appointment
	err := c.doJSON(ctx, http.MethodPost, "/api/appointments", req, &appt)
	c.metrics.ObserveRequest("create_appointment", err)
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return &appt, nil
}

// ListAppointments returns appointments matching the filter.
func (c *Client) ListAppointments(ctx context.Context, filter AppointmentFilter) ([]Appointment, error) {
	q := url.Values{}
	if filter.ShopID != "" {
		q.Set("shop_id", filter.ShopID)
	}
	if filter.BarberID != "" {
		q.Set("barber_id", filter.BarberID)
	}
	if filter.ClientUserID != "" {
		q.Set("client_user_id", filter.ClientUserID)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	path := "/api/appointments"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var appts []Appointment
	err := c.doJSON(ctx, http.MethodGet, path, nil, &appts)
	c.metrics.ObserveRequest("list_appointments", err)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

// UpdateAppointmentStatus moves an appointment through its lifecycle
// (confirmed, in_progress, completed, cancelled).
func (c *Client) UpdateAppointmentStatus(ctx context.Context, appointmentID, status string) (*Appointment, error) {
	body := map[string]string{"status": status}
	var appt Appointment
	err := c.doJSON(ctx, http.MethodPut, "/api/appointments/"+url.PathEscape(appointmentID), body, &appt)
	c.metrics.ObserveRequest("update_appointment_status", err)
	if err != nil {
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	return &appt, nil
}

// CancelAppointment deletes an appointment.
func (c *Client) CancelAppointment(ctx context.Context, appointmentID string) error {
	err := c.doJSON(ctx, http.MethodDelete, "/api/appointments/"+url.PathEscape(appointmentID), nil, nil)
	c.metrics.ObserveRequest("cancel_appointment", err)
	if err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}
	return nil
}

// CreateDeposit creates a deposit referencing an existing appointment.
func (c *Client) CreateDeposit(ctx context.Context, req DepositCreate) (*Deposit, error) {
	var dep Deposit
	err := c.doJSON(ctx, http.MethodPost, "/api/payments/deposits", req, &dep)
	c.metrics.ObserveRequest("create_deposit", err)
	if err != nil {
		return nil, fmt.Errorf("create deposit: %w", err)
	}
	return &dep, nil
}

// CreateUser registers a new user account.
func (c *Client) CreateUser(ctx context.Context, req UserCreate) (*User, error) {
	var user User
	err := c.doJSON(ctx, http.MethodPost, "/api/users", req, &user)
	c.metrics.ObserveRequest("create_user", err)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// GetUser fetches a user by id.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	var user User
	err := c.doJSON(ctx, http.MethodGet, "/api/users/"+url.PathEscape(userID), nil, &user)
	c.metrics.ObserveRequest("get_user", err)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// FindUserByEmail looks a user up by email. Returns ErrNotFound when no
// account matches.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	q := url.Values{}
	q.Set("email", email)

	var users []User
	err := c.doJSON(ctx, http.MethodGet, "/api/users?"+q.Encode(), nil, &users)
	c.metrics.ObserveRequest("find_user_by_email", err)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return &users[0], nil
}

// LoyaltyBalance returns the user's current point total.
func (c *Client) LoyaltyBalance(ctx context.Context, userID string) (*LoyaltyBalance, error) {
	var balance LoyaltyBalance
	err := c.doJSON(ctx, http.MethodGet, "/api/loyalty/"+url.PathEscape(userID), nil, &balance)
	c.metrics.ObserveRequest("loyalty_balance", err)
	if err != nil {
		return nil, fmt.Errorf("loyalty balance: %w", err)
	}
	return &balance, nil
}

// LoyaltyTransactions returns the user's earn/redeem history, newest first.
func (c *Client) LoyaltyTransactions(ctx context.Context, userID string) ([]LoyaltyTransaction, error) {
	var txs []LoyaltyTransaction
	err := c.doJSON(ctx, http.MethodGet, "/api/loyalty/"+url.PathEscape(userID)+"/transactions", nil, &txs)
	c.metrics.ObserveRequest("loyalty_transactions", err)
	if err != nil {
		return nil, fmt.Errorf("loyalty transactions: %w", err)
	}
	return txs, nil
}

// RedeemLoyaltyPoints spends points and returns the new balance.
func (c *Client) RedeemLoyaltyPoints(ctx context.Context, userID string, points int) (*LoyaltyBalance, error) {
	body := map[string]any{"user_id": userID, "points": points}
	var balance LoyaltyBalance
	err := c.doJSON(ctx, http.MethodPost, "/api/loyalty/redeem", body, &balance)
	c.metrics.ObserveRequest("redeem_loyalty_points", err)
	if err != nil {
		return nil, fmt.Errorf("redeem loyalty points: %w", err)
	}
	return &balance, nil
}

// CreateClientHistory records a visit outcome against an appointment.
func (c *Client) CreateClientHistory(ctx context.Context, req ClientHistoryCreate) (*ClientHistory, error) {
	var hist ClientHistory
	err := c.doJSON(ctx, http.MethodPost, "/api/client-history", req, &hist)
	c.metrics.ObserveRequest("create_client_history", err)
	if err != nil {
		return nil, fmt.Errorf("create client history: %w", err)
	}
	return &hist, nil
}

// ListClientHistory returns a client's visit records, newest first.
func (c *Client) ListClientHistory(ctx context.Context, clientUserID string) ([]ClientHistory, error) {
	var hist []ClientHistory
	err := c.doJSON(ctx, http.MethodGet, "/api/client-history/"+url.PathEscape(clientUserID), nil, &hist)
	c.metrics.ObserveRequest("list_client_history", err)
	if err != nil {
		return nil, fmt.Errorf("list client history: %w", err)
	}
	return hist, nil
}

// RegisterPushToken stores a device push token for the user.
func (c *Client) RegisterPushToken(ctx context.Context, req PushTokenCreate) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/push-tokens", req, nil)
	c.metrics.ObserveRequest("register_push_token", err)
	if err != nil {
		return fmt.Errorf("register push token: %w", err)
	}
	return nil
}

// PostClientLog ships a client-side log record to the backend. Fire and
// forget; callers usually ignore the error.
func (c *Client) PostClientLog(ctx context.Context, entry LogEntry) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/logs", entry, nil)
	c.metrics.ObserveRequest("post_client_log", err)
	if err != nil {
		return fmt.Errorf("post client log: %w", err)
	}
	return nil
}

// DashboardStats returns the admin summary for a shop.
func (c *Client) DashboardStats(ctx context.Context, shopID string) (*DashboardStats, error) {
	q := url.Values{}
	q.Set("shop_id", shopID)

	var stats DashboardStats
	err := c.doJSON(ctx, http.MethodGet, "/api/dashboard/stats?"+q.Encode(), nil, &stats)
	c.metrics.ObserveRequest("dashboard_stats", err)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &stats, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	endpoint := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		c.logger.Warn("backend non-2xx response", "status", resp.StatusCode, "path", path, "body", msg)
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, msg)
	}

	if len(respBody) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
