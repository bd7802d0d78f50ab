package wizard

import (
	"context"
	"sync"

	"github.com/sharpline/barberbook/internal/api"
	"github.com/sharpline/barberbook/internal/fetch"
	"github.com/sharpline/barberbook/pkg/logging"
)

// Tracker keys, one per dependent list.
const (
	keyShops    = "shops"
	keyServices = "services"
	keyBarbers  = "barbers"
)

// Directory is the read side of the backend the wizard fetches from.
type Directory interface {
	ListBarbershops(ctx context.Context) ([]api.Barbershop, error)
	ListServices(ctx context.Context, shopID string) ([]api.Service, error)
	ListBarbers(ctx context.Context, shopID string) ([]api.Barber, error)
}

// Fetchers loads the per-step lists. Every dispatch is tagged with a
// generation; a response whose generation has been superseded is dropped, so
// rapid shop switches cannot leave a stale list on screen. Failures degrade
// to a Failed state (rendered as an empty list) and are logged, not retried.
type Fetchers struct {
	dir     Directory
	tracker *fetch.Tracker
	logger  *logging.Logger

	mu       sync.Mutex
	shops    fetch.State[[]api.Barbershop]
	services fetch.State[[]api.Service]
	barbers  fetch.State[[]api.Barber]
}

func NewFetchers(dir Directory, logger *logging.Logger) *Fetchers {
	if logger == nil {
		logger = logging.Default()
	}
	return &Fetchers{
		dir:      dir,
		tracker:  fetch.NewTracker(),
		logger:   logger,
		shops:    fetch.IdleState[[]api.Barbershop](),
		services: fetch.IdleState[[]api.Service](),
		barbers:  fetch.IdleState[[]api.Barber](),
	}
}

// LoadShops fetches the shop list. Called once when the wizard mounts.
func (f *Fetchers) LoadShops(ctx context.Context) {
	gen := f.tracker.Begin(keyShops)
	f.setShops(fetch.LoadingState[[]api.Barbershop]())

	shops, err := f.dir.ListBarbershops(ctx)
	if !f.tracker.Current(keyShops, gen) {
		return
	}
	if err != nil {
		f.logger.Error("shop list fetch failed", "error", err)
		f.setShops(fetch.FailedState[[]api.Barbershop](err))
		return
	}
	f.setShops(fetch.LoadedState(shops))
}

// ShopChanged refreshes the service and barber lists for the newly selected
// shop. Barbers are filtered to available ones; busy and unavailable staff
// are never offered.
func (f *Fetchers) ShopChanged(ctx context.Context, shopID string) {
	servicesGen := f.tracker.Begin(keyServices)
	barbersGen := f.tracker.Begin(keyBarbers)
	f.setServices(fetch.LoadingState[[]api.Service]())
	f.setBarbers(fetch.LoadingState[[]api.Barber]())

	services, err := f.dir.ListServices(ctx, shopID)
	if f.tracker.Current(keyServices, servicesGen) {
		if err != nil {
			f.logger.Error("service list fetch failed", "error", err, "shop_id", shopID)
			f.setServices(fetch.FailedState[[]api.Service](err))
		} else {
			f.setServices(fetch.LoadedState(services))
		}
	}

	barbers, err := f.dir.ListBarbers(ctx, shopID)
	if !f.tracker.Current(keyBarbers, barbersGen) {
		return
	}
	if err != nil {
		f.logger.Error("barber list fetch failed", "error", err, "shop_id", shopID)
		f.setBarbers(fetch.FailedState[[]api.Barber](err))
		return
	}
	available := make([]api.Barber, 0, len(barbers))
	for _, b := range barbers {
		if b.Status == api.BarberAvailable {
			available = append(available, b)
		}
	}
	f.setBarbers(fetch.LoadedState(available))
}

// Shops returns the current shop list state.
func (f *Fetchers) Shops() fetch.State[[]api.Barbershop] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shops
}

// Services returns the current service list state.
func (f *Fetchers) Services() fetch.State[[]api.Service] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.services
}

// Barbers returns the current (availability-filtered) barber list state.
func (f *Fetchers) Barbers() fetch.State[[]api.Barber] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.barbers
}

func (f *Fetchers) setShops(s fetch.State[[]api.Barbershop]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shops = s
}

func (f *Fetchers) setServices(s fetch.State[[]api.Service]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.services = s
}

func (f *Fetchers) setBarbers(s fetch.State[[]api.Barber]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.barbers = s
}
