package stub

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sharpline/barberbook/internal/api"
	"github.com/sharpline/barberbook/internal/session"
	"github.com/sharpline/barberbook/pkg/logging"
)

// Handler serves the backend REST API from a Store.
type Handler struct {
	store         *Store
	sessionSecret string
	logger        *logging.Logger
}

func NewHandler(store *Store, sessionSecret string, logger *logging.Logger) *Handler {
	if store == nil {
		panic("stub: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, sessionSecret: sessionSecret, logger: logger}
}

// Routes builds the full router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/session", h.createSession)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"message": "BarberShop API v1.0", "status": "running"})
		})

		r.Post("/users", h.createUser)
		r.Get("/users", h.listUsers)
		r.Get("/users/{userID}", h.getUser)

		r.Get("/barbershops", h.listShops)
		r.Get("/barbershops/{shopID}", h.getShop)

		r.Get("/services", h.listServices)
		r.Post("/services", h.createService)

		r.Get("/barbers", h.listBarbers)
		r.Put("/barbers/{barberID}", h.updateBarber)

		r.Post("/appointments", h.createAppointment)
		r.Get("/appointments", h.listAppointments)
		r.Put("/appointments/{appointmentID}", h.updateAppointment)
		r.Delete("/appointments/{appointmentID}", h.deleteAppointment)

		r.Post("/payments/deposits", h.createDeposit)

		r.Post("/client-history", h.createClientHistory)
		r.Get("/client-history/{clientUserID}", h.listClientHistory)

		r.Get("/loyalty/{userID}", h.loyaltyBalance)
		r.Get("/loyalty/{userID}/transactions", h.loyaltyTransactions)
		r.Post("/loyalty/redeem", h.redeemPoints)

		r.Post("/push-tokens", h.registerPushToken)
		r.Post("/logs", h.appendLog)

		r.Get("/dashboard/stats", h.dashboardStats)
	})
	return r
}

// createSession issues an HS256 session token for a known email. Demo-grade
// auth: no password, same shape of token the real auth service mints.
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "email required", http.StatusBadRequest)
		return
	}
	users := h.store.FindUsers(req.Email, "")
	if len(users) == 0 {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	user := users[0]
	claims := session.Claims{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.sessionSecret))
	if err != nil {
		h.logger.Error("session token signing failed", "error", err)
		http.Error(w, "could not issue session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": signed})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req api.UserCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "invalid user payload", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.store.CreateUser(req))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.FindUsers(r.URL.Query().Get("email"), r.URL.Query().Get("role")))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.store.GetUser(chi.URLParam(r, "userID"))
	if !ok {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) listShops(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ListShops())
}

func (h *Handler) getShop(w http.ResponseWriter, r *http.Request) {
	shop, ok := h.store.GetShop(chi.URLParam(r, "shopID"))
	if !ok {
		http.Error(w, "barbershop not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, shop)
}

func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ListServices(r.URL.Query().Get("shop_id")))
}

func (h *Handler) createService(w http.ResponseWriter, r *http.Request) {
	var req api.ServiceCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ShopID == "" || req.Name == "" {
		http.Error(w, "invalid service payload", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.store.AddService(req))
}

func (h *Handler) listBarbers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ListBarbers(r.URL.Query().Get("shop_id")))
}

func (h *Handler) updateBarber(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		http.Error(w, "invalid barber update", http.StatusBadRequest)
		return
	}
	barber, ok := h.store.UpdateBarberStatus(chi.URLParam(r, "barberID"), req.Status)
	if !ok {
		http.Error(w, "barber not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, barber)
}

func (h *Handler) createAppointment(w http.ResponseWriter, r *http.Request) {
	var req api.AppointmentCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid appointment payload", http.StatusBadRequest)
		return
	}
	if req.ShopID == "" || req.BarberID == "" || req.ClientUserID == "" || req.ServiceID == "" || req.ScheduledTime.IsZero() {
		http.Error(w, "missing required appointment fields", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.store.CreateAppointment(req))
}

func (h *Handler) listAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.store.ListAppointments(api.AppointmentFilter{
		ShopID:       q.Get("shop_id"),
		BarberID:     q.Get("barber_id"),
		ClientUserID: q.Get("client_user_id"),
		Status:       q.Get("status"),
	}))
}

func (h *Handler) updateAppointment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		http.Error(w, "invalid appointment update", http.StatusBadRequest)
		return
	}
	appt, ok := h.store.UpdateAppointmentStatus(chi.URLParam(r, "appointmentID"), req.Status)
	if !ok {
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (h *Handler) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	if !h.store.DeleteAppointment(chi.URLParam(r, "appointmentID")) {
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) createDeposit(w http.ResponseWriter, r *http.Request) {
	var req api.DepositCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid deposit payload", http.StatusBadRequest)
		return
	}
	dep, err := h.store.CreateDeposit(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, dep)
}

func (h *Handler) createClientHistory(w http.ResponseWriter, r *http.Request) {
	var req api.ClientHistoryCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ClientUserID == "" || req.BarberID == "" || req.AppointmentID == "" {
		http.Error(w, "invalid client history payload", http.StatusBadRequest)
		return
	}
	hist, err := h.store.AddClientHistory(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, hist)
}

func (h *Handler) listClientHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ListClientHistory(chi.URLParam(r, "clientUserID")))
}

func (h *Handler) loyaltyBalance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.LoyaltyBalance(chi.URLParam(r, "userID")))
}

func (h *Handler) loyaltyTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.LoyaltyTransactions(chi.URLParam(r, "userID")))
}

func (h *Handler) redeemPoints(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Points int    `json:"points"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		http.Error(w, "invalid redeem payload", http.StatusBadRequest)
		return
	}
	balance, err := h.store.RedeemPoints(req.UserID, req.Points)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

func (h *Handler) registerPushToken(w http.ResponseWriter, r *http.Request) {
	var req api.PushTokenCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.Token == "" {
		http.Error(w, "invalid push token payload", http.StatusBadRequest)
		return
	}
	h.store.RegisterPushToken(req)
	writeJSON(w, http.StatusOK, map[string]string{"status": "registered"})
}

func (h *Handler) appendLog(w http.ResponseWriter, r *http.Request) {
	var entry api.LogEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "invalid log payload", http.StatusBadRequest)
		return
	}
	h.store.AppendLog(entry)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged"})
}

func (h *Handler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	shopID := r.URL.Query().Get("shop_id")
	if shopID == "" {
		http.Error(w, "shop_id required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.store.Stats(shopID))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
