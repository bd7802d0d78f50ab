// Package cli implements the interactive terminal client: the role menus and
// the booking wizard loop. Screens stay thin; they fetch, render and forward
// selections into the wizard store.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sharpline/barberbook/internal/api"
	"github.com/sharpline/barberbook/internal/render"
	"github.com/sharpline/barberbook/internal/schedule"
	"github.com/sharpline/barberbook/internal/session"
	"github.com/sharpline/barberbook/internal/wizard"
	"github.com/sharpline/barberbook/pkg/logging"
)

// App wires one signed-in session to the backend client and the wizard.
type App struct {
	client    *api.Client
	sess      *session.Session
	store     *wizard.Store
	fetchers  *wizard.Fetchers
	submitter *wizard.Submitter
	in        *bufio.Scanner
	out       io.Writer
	logger    *logging.Logger
}

func New(client *api.Client, sess *session.Session, depositRate float64, currency string, in io.Reader, out io.Writer, logger *logging.Logger) *App {
	if logger == nil {
		logger = logging.Default()
	}
	return &App{
		client:    client,
		sess:      sess,
		store:     wizard.NewStore(depositRate, logger),
		fetchers:  wizard.NewFetchers(client, logger),
		submitter: wizard.NewSubmitter(client, currency, logger),
		in:        bufio.NewScanner(in),
		out:       out,
		logger:    logger,
	}
}

// Run shows the role-specific menu until the user quits or input ends.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", a.sess.Name, a.sess.Role)
	for {
		a.printMenu()
		choice, ok := a.read()
		if !ok || choice == "q" {
			return nil
		}
		if err := a.dispatch(ctx, choice); err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
		}
	}
}

func (a *App) printMenu() {
	fmt.Fprintln(a.out, "\nMenu:")
	switch {
	case a.sess.IsAdmin():
		fmt.Fprintln(a.out, "  1. Dashboard stats")
		fmt.Fprintln(a.out, "  2. Add service")
		fmt.Fprintln(a.out, "  3. Manage barbers")
	case a.sess.IsBarber():
		fmt.Fprintln(a.out, "  1. Today's appointments")
		fmt.Fprintln(a.out, "  2. Set my status")
		fmt.Fprintln(a.out, "  3. Client history")
	default:
		fmt.Fprintln(a.out, "  1. Book an appointment")
		fmt.Fprintln(a.out, "  2. My appointments")
		fmt.Fprintln(a.out, "  3. Loyalty points")
		fmt.Fprintln(a.out, "  4. Profile")
	}
	fmt.Fprintln(a.out, "  q. Quit")
	fmt.Fprint(a.out, "> ")
}

func (a *App) dispatch(ctx context.Context, choice string) error {
	switch {
	case a.sess.IsAdmin():
		switch choice {
		case "1":
			return a.dashboardScreen(ctx)
		case "2":
			return a.addServiceScreen(ctx)
		case "3":
			return a.manageBarbersScreen(ctx)
		}
	case a.sess.IsBarber():
		switch choice {
		case "1":
			return a.barberAppointmentsScreen(ctx)
		case "2":
			return a.barberStatusScreen(ctx)
		case "3":
			return a.clientHistoryScreen(ctx)
		}
	default:
		switch choice {
		case "1":
			return a.BookingWizard(ctx)
		case "2":
			return a.myAppointmentsScreen(ctx)
		case "3":
			return a.loyaltyScreen(ctx)
		case "4":
			return a.profileScreen(ctx)
		}
	}
	fmt.Fprintln(a.out, "Unknown choice.")
	return nil
}

// BookingWizard walks the four steps and submits the draft.
func (a *App) BookingWizard(ctx context.Context) error {
	a.fetchers.LoadShops(ctx)

	for {
		switch a.store.Step() {
		case wizard.StepShop:
			done, err := a.shopStep(ctx)
			if err != nil || done {
				return err
			}
		case wizard.StepService:
			if quit := a.serviceStep(); quit {
				return nil
			}
		case wizard.StepBarber:
			if quit := a.barberStep(); quit {
				return nil
			}
		case wizard.StepSchedule:
			done, err := a.scheduleStep(ctx)
			if err != nil || done {
				return err
			}
		}
	}
}

// shopStep returns done=true when the user aborts the wizard.
func (a *App) shopStep(ctx context.Context) (bool, error) {
	state := a.fetchers.Shops()
	draft := a.store.Draft()
	selected := ""
	if draft.Shop != nil {
		selected = draft.Shop.ShopID
	}
	fmt.Fprint(a.out, render.ShopList(state, selected))
	if !state.IsLoaded() || len(state.Data) == 0 {
		return true, nil
	}

	fmt.Fprint(a.out, "Select a shop (number), or q to cancel: ")
	input, ok := a.read()
	if !ok || input == "q" {
		return true, nil
	}
	idx, err := strconv.Atoi(input)
	if err != nil || idx < 1 || idx > len(state.Data) {
		fmt.Fprintln(a.out, "Pick a number from the list.")
		return false, nil
	}
	shop := state.Data[idx-1]
	a.store.SelectShop(shop)
	a.fetchers.ShopChanged(ctx, shop.ShopID)
	a.store.Advance()
	return false, nil
}

func (a *App) serviceStep() bool {
	state := a.fetchers.Services()
	draft := a.store.Draft()
	selected := ""
	if draft.Service != nil {
		selected = draft.Service.ServiceID
	}
	fmt.Fprint(a.out, render.ServiceList(state, selected))

	fmt.Fprint(a.out, "Select a service (number), b to go back, q to cancel: ")
	input, ok := a.read()
	if !ok || input == "q" {
		return true
	}
	if input == "b" {
		a.store.Retreat()
		return false
	}
	idx, err := strconv.Atoi(input)
	if err != nil || !state.IsLoaded() || idx < 1 || idx > len(state.Data) {
		fmt.Fprintln(a.out, "Pick a number from the list.")
		return false
	}
	a.store.SelectService(state.Data[idx-1])
	a.store.Advance()
	return false
}

func (a *App) barberStep() bool {
	state := a.fetchers.Barbers()
	draft := a.store.Draft()
	selected := ""
	if draft.Barber != nil {
		selected = draft.Barber.BarberID
	}
	fmt.Fprint(a.out, render.BarberList(state, selected))

	fmt.Fprint(a.out, "Select a barber (number), b to go back, q to cancel: ")
	input, ok := a.read()
	if !ok || input == "q" {
		return true
	}
	if input == "b" {
		a.store.Retreat()
		return false
	}
	idx, err := strconv.Atoi(input)
	if err != nil || !state.IsLoaded() || idx < 1 || idx > len(state.Data) {
		fmt.Fprintln(a.out, "Pick a number from the list.")
		return false
	}
	a.store.SelectBarber(state.Data[idx-1])
	a.store.Advance()
	return false
}

// scheduleStep returns done=true when the wizard is finished (submitted,
// declined or input ended). Going back hands control to the step loop.
func (a *App) scheduleStep(ctx context.Context) (bool, error) {
	days := schedule.CandidateDays(time.Now(), time.Local)
	for {
		fmt.Fprint(a.out, render.DateStrip(days, a.store.Draft().Date))
		fmt.Fprint(a.out, "Select a date (number), b to go back: ")
		input, ok := a.read()
		if !ok {
			return true, nil
		}
		if input == "b" {
			a.store.Retreat()
			return false, nil
		}
		idx, err := strconv.Atoi(input)
		if err != nil || idx < 1 || idx > len(days) {
			fmt.Fprintln(a.out, "Pick a number from the list.")
			continue
		}
		a.store.SelectDate(days[idx-1])
		break
	}

	labels := schedule.SlotLabels()
	for {
		fmt.Fprint(a.out, render.TimeGrid(labels, a.store.Draft().TimeLabel))
		fmt.Fprint(a.out, "Select a time (number): ")
		input, ok := a.read()
		if !ok {
			return true, nil
		}
		idx, err := strconv.Atoi(input)
		if err != nil || idx < 1 || idx > len(labels) {
			fmt.Fprintln(a.out, "Pick a number from the list.")
			continue
		}
		a.store.SelectTime(labels[idx-1])
		break
	}

	fmt.Fprint(a.out, "Notes (optional): ")
	if notes, ok := a.read(); ok && notes != "" {
		a.store.SetNotes(notes)
	}

	fmt.Fprintf(a.out, "Pay a deposit of $%.2f now? (y/n): ", a.store.Draft().DepositAmount)
	if answer, ok := a.read(); ok && strings.EqualFold(answer, "y") {
		a.store.SetDeposit(true, 0)
	}

	fmt.Fprint(a.out, render.Summary(a.store.Draft()))
	fmt.Fprint(a.out, "Confirm booking? (y/n): ")
	answer, ok := a.read()
	if !ok || !strings.EqualFold(answer, "y") {
		fmt.Fprintln(a.out, "Booking not submitted.")
		return true, nil
	}

	result, err := a.submitter.Submit(ctx, a.sess, a.store)
	if err != nil {
		fmt.Fprintln(a.out, "Could not complete your booking. Please try again.")
		_ = a.client.PostClientLog(ctx, api.LogEntry{
			Level:   "error",
			Message: err.Error(),
			Screen:  "booking_wizard",
			UserID:  a.sess.UserID,
		})
		return true, nil
	}
	fmt.Fprint(a.out, render.Outcome(result))
	return true, nil
}

func (a *App) myAppointmentsScreen(ctx context.Context) error {
	appts, err := a.client.ListAppointments(ctx, api.AppointmentFilter{ClientUserID: a.sess.UserID})
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, render.AppointmentList(appts))
	return nil
}

func (a *App) loyaltyScreen(ctx context.Context) error {
	balance, err := a.client.LoyaltyBalance(ctx, a.sess.UserID)
	if err != nil {
		return err
	}
	txs, err := a.client.LoyaltyTransactions(ctx, a.sess.UserID)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, render.LoyaltySummary(balance, txs))
	return nil
}

func (a *App) profileScreen(ctx context.Context) error {
	user, err := a.client.GetUser(ctx, a.sess.UserID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Name:  %s\nEmail: %s\nRole:  %s\n", user.Name, user.Email, user.Role)
	return nil
}

func (a *App) barberAppointmentsScreen(ctx context.Context) error {
	barberID, err := a.ownBarberID(ctx)
	if err != nil {
		return err
	}
	appts, err := a.client.ListAppointments(ctx, api.AppointmentFilter{BarberID: barberID})
	if err != nil {
		return err
	}
	today := appts[:0]
	now := time.Now()
	for _, appt := range appts {
		if sameDay(appt.ScheduledTime.Local(), now) {
			today = append(today, appt)
		}
	}
	fmt.Fprint(a.out, render.AppointmentList(today))
	return nil
}

func (a *App) barberStatusScreen(ctx context.Context) error {
	barberID, err := a.ownBarberID(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "New status (%s/%s/%s): ", api.BarberAvailable, api.BarberBusy, api.BarberUnavailable)
	status, ok := a.read()
	if !ok {
		return nil
	}
	switch status {
	case api.BarberAvailable, api.BarberBusy, api.BarberUnavailable:
	default:
		fmt.Fprintln(a.out, "Unknown status.")
		return nil
	}
	if _, err := a.client.UpdateBarberStatus(ctx, barberID, status); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Status updated.")
	return nil
}

// clientHistoryScreen shows the visit history of a client that booked with
// this barber and records a new note against one of the appointments.
func (a *App) clientHistoryScreen(ctx context.Context) error {
	barberID, err := a.ownBarberID(ctx)
	if err != nil {
		return err
	}
	appts, err := a.client.ListAppointments(ctx, api.AppointmentFilter{BarberID: barberID})
	if err != nil {
		return err
	}
	if len(appts) == 0 {
		fmt.Fprintln(a.out, "No appointments.")
		return nil
	}
	for i, appt := range appts {
		fmt.Fprintf(a.out, "%d. %s  %s  [%s]\n", i+1, appt.ScheduledTime.Format("2006-01-02 15:04"), appt.ClientUserID, appt.Status)
	}
	fmt.Fprint(a.out, "Appointment (number): ")
	input, ok := a.read()
	if !ok {
		return nil
	}
	idx, err := strconv.Atoi(input)
	if err != nil || idx < 1 || idx > len(appts) {
		fmt.Fprintln(a.out, "Pick a number from the list.")
		return nil
	}
	appt := appts[idx-1]

	records, err := a.client.ListClientHistory(ctx, appt.ClientUserID)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, render.ClientHistoryList(records))

	fmt.Fprint(a.out, "Add a note (blank to skip): ")
	note, ok := a.read()
	if !ok || note == "" {
		return nil
	}
	if _, err := a.client.CreateClientHistory(ctx, api.ClientHistoryCreate{
		ClientUserID:  appt.ClientUserID,
		BarberID:      barberID,
		AppointmentID: appt.AppointmentID,
		Notes:         note,
	}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Note saved.")
	return nil
}

// ownBarberID finds the barber record belonging to the signed-in user.
func (a *App) ownBarberID(ctx context.Context) (string, error) {
	barbers, err := a.client.ListBarbers(ctx, "")
	if err != nil {
		return "", err
	}
	for _, b := range barbers {
		if b.UserID == a.sess.UserID {
			return b.BarberID, nil
		}
	}
	return "", fmt.Errorf("no barber profile for user %s", a.sess.UserID)
}

func (a *App) dashboardScreen(ctx context.Context) error {
	shopID, err := a.pickShop(ctx)
	if err != nil || shopID == "" {
		return err
	}
	stats, err := a.client.DashboardStats(ctx, shopID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Appointments: %d (today %d)\nBarbers: %d\nServices: %d\nRevenue: $%.2f\n",
		stats.TotalAppointments, stats.TodayAppointments, stats.TotalBarbers, stats.TotalServices, stats.TotalRevenue)
	return nil
}

func (a *App) addServiceScreen(ctx context.Context) error {
	shopID, err := a.pickShop(ctx)
	if err != nil || shopID == "" {
		return err
	}
	fmt.Fprint(a.out, "Service name: ")
	name, ok := a.read()
	if !ok || name == "" {
		return nil
	}
	fmt.Fprint(a.out, "Price: ")
	priceStr, _ := a.read()
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price <= 0 {
		fmt.Fprintln(a.out, "Invalid price.")
		return nil
	}
	fmt.Fprint(a.out, "Duration (minutes): ")
	durStr, _ := a.read()
	duration, err := strconv.Atoi(durStr)
	if err != nil || duration <= 0 {
		fmt.Fprintln(a.out, "Invalid duration.")
		return nil
	}
	svc, err := a.client.CreateService(ctx, api.ServiceCreate{
		ShopID:   shopID,
		Name:     name,
		Price:    price,
		Duration: duration,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Service %s created.\n", svc.ServiceID)
	return nil
}

func (a *App) manageBarbersScreen(ctx context.Context) error {
	shopID, err := a.pickShop(ctx)
	if err != nil || shopID == "" {
		return err
	}
	barbers, err := a.client.ListBarbers(ctx, shopID)
	if err != nil {
		return err
	}
	for _, b := range barbers {
		name := b.Name
		if name == "" {
			name = b.BarberID
		}
		fmt.Fprintf(a.out, "%s — %s (%.1f★)\n", name, b.Status, b.Rating)
	}
	return nil
}

func (a *App) pickShop(ctx context.Context) (string, error) {
	shops, err := a.client.ListBarbershops(ctx)
	if err != nil {
		return "", err
	}
	if len(shops) == 0 {
		fmt.Fprintln(a.out, render.EmptyShops)
		return "", nil
	}
	for i, shop := range shops {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, shop.Name)
	}
	fmt.Fprint(a.out, "Shop (number): ")
	input, ok := a.read()
	if !ok {
		return "", nil
	}
	idx, err := strconv.Atoi(input)
	if err != nil || idx < 1 || idx > len(shops) {
		fmt.Fprintln(a.out, "Pick a number from the list.")
		return "", nil
	}
	return shops[idx-1].ShopID, nil
}

func (a *App) read() (string, bool) {
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
