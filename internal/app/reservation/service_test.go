package reservation

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"tablebook/internal/adapter/logger"
	"tablebook/internal/domain"
	"tablebook/internal/interfaces"
)

type fakeRepo struct {
	nextID     int64
	items      map[int64]*domain.Reservation
	lastFilter interfaces.ReservationFilter
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[int64]*domain.Reservation)}
}

func (f *fakeRepo) Create(ctx context.Context, r *domain.Reservation) error {
	f.nextID++
	r.ID = f.nextID
	stored := *r
	f.items[r.ID] = &stored
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	r, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRepo) Update(ctx context.Context, r *domain.Reservation) error {
	if _, ok := f.items[r.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := *r
	f.items[r.ID] = &stored
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter interfaces.ReservationFilter) ([]*domain.Reservation, int, error) {
	f.lastFilter = filter

	var all []*domain.Reservation
	for _, r := range f.items {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.CustomerEmail != "" && r.CustomerEmail != filter.CustomerEmail {
			continue
		}
		copied := *r
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ReservationDate.Before(all[j].ReservationDate)
	})

	total := len(all)
	offset := filter.Offset()
	if offset > total {
		return nil, total, nil
	}
	end := offset + filter.PerPage
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *fakeRepo) ConfirmByID(ctx context.Context, id int64, now time.Time) (*domain.Reservation, error) {
	r, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := r.Confirm(now); err != nil {
		return nil, err
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRepo) CancelByID(ctx context.Context, id int64, now time.Time) (*domain.Reservation, error) {
	r, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := r.Cancel(now); err != nil {
		return nil, err
	}
	copied := *r
	return &copied, nil
}

type fakePublisher struct {
	published []interfaces.ReservationCreatedMessage
	err       error
}

func (f *fakePublisher) PublishReservationCreated(ctx context.Context, msg interfaces.ReservationCreatedMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func newTestService() (*Service, *fakeRepo, *fakePublisher) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	return NewService(repo, pub, logger.New("test")), repo, pub
}

func validCommand() interfaces.CreateReservationCommand {
	d := time.Now().AddDate(0, 0, 1)
	return interfaces.CreateReservationCommand{
		CustomerName:    "Alice Smith",
		CustomerEmail:   "alice@example.com",
		CustomerPhone:   "555-0101",
		PartySize:       4,
		ReservationDate: time.Date(d.Year(), d.Month(), d.Day(), 19, 0, 0, 0, d.Location()),
	}
}

func TestCreateReservation(t *testing.T) {
	svc, _, pub := newTestService()

	r, err := svc.Create(context.Background(), validCommand())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if r.Status != domain.StatusPending {
		t.Errorf("Status = %v, want pending", r.Status)
	}
	if r.ID == 0 {
		t.Error("ID was not assigned")
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d notifications, want 1", len(pub.published))
	}
	if pub.published[0].CustomerEmail != "alice@example.com" {
		t.Errorf("notification email = %q", pub.published[0].CustomerEmail)
	}
}

func TestCreateReservationRejectsPastDate(t *testing.T) {
	svc, _, pub := newTestService()

	cmd := validCommand()
	d := time.Now().AddDate(0, 0, -1)
	cmd.ReservationDate = time.Date(d.Year(), d.Month(), d.Day(), 19, 0, 0, 0, d.Location())

	_, err := svc.Create(context.Background(), cmd)
	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Create() error = %v, want ValidationErrors", err)
	}
	if len(pub.published) != 0 {
		t.Error("notification published for rejected reservation")
	}
}

func TestCreateReservationRejectsOffHours(t *testing.T) {
	svc, _, _ := newTestService()

	cmd := validCommand()
	d := time.Now().AddDate(0, 0, 1)
	cmd.ReservationDate = time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, d.Location())

	_, err := svc.Create(context.Background(), cmd)
	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Create() error = %v, want ValidationErrors", err)
	}
}

type recordingLogger struct {
	warnDetails map[string]interface{}
}

func (l *recordingLogger) Info(action, message, requestID string, details map[string]interface{}) {}

func (l *recordingLogger) Debug(action, message, requestID string, details map[string]interface{}) {}

func (l *recordingLogger) Warn(action, message, requestID string, details map[string]interface{}) {
	l.warnDetails = details
}

func (l *recordingLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
}

func TestCreateSurvivesPublishFailure(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{err: errors.New("broker down")}
	lgr := &recordingLogger{}
	svc := NewService(repo, pub, lgr)

	r, err := svc.Create(context.Background(), validCommand())
	if err != nil {
		t.Fatalf("Create() error = %v, want success despite publish failure", err)
	}
	if r.ID == 0 {
		t.Error("reservation was not persisted")
	}
	if lgr.warnDetails == nil {
		t.Fatal("publish failure was not logged")
	}
	if lgr.warnDetails["error"] != "broker down" {
		t.Errorf("logged error = %v, want %q", lgr.warnDetails["error"], "broker down")
	}
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	svc, _, _ := newTestService()

	cmd := validCommand()
	cmd.SpecialRequests = "window seat"
	created, err := svc.Create(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if got.CustomerName != cmd.CustomerName ||
		got.CustomerEmail != cmd.CustomerEmail ||
		got.CustomerPhone != cmd.CustomerPhone ||
		got.PartySize != cmd.PartySize ||
		!got.ReservationDate.Equal(cmd.ReservationDate) ||
		got.SpecialRequests != cmd.SpecialRequests {
		t.Errorf("Get() = %+v, want fields from %+v", got, cmd)
	}
}

func TestConfirmThenCancel(t *testing.T) {
	svc, repo, _ := newTestService()

	created, err := svc.Create(context.Background(), validCommand())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	confirmed, err := svc.Confirm(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if confirmed.Status != domain.StatusConfirmed {
		t.Fatalf("Status = %v, want confirmed", confirmed.Status)
	}

	// Still more than the cutoff away, so staff cancellation goes through.
	cancelled, err := svc.Cancel(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if cancelled.Status != domain.StatusCancelled {
		t.Errorf("Status = %v, want cancelled", cancelled.Status)
	}
	if repo.items[created.ID].Status != domain.StatusCancelled {
		t.Error("cancellation was not persisted")
	}
}

func TestCancelInsideCutoff(t *testing.T) {
	svc, repo, _ := newTestService()

	// Seed directly: a booking 30 minutes out cannot be created through
	// the API when the restaurant is closed right now.
	repo.nextID++
	repo.items[repo.nextID] = &domain.Reservation{
		ID:              repo.nextID,
		CustomerName:    "Bob Jones",
		CustomerEmail:   "bob@example.com",
		CustomerPhone:   "555-0102",
		PartySize:       2,
		ReservationDate: time.Now().Add(30 * time.Minute),
		Status:          domain.StatusPending,
	}

	_, err := svc.Cancel(context.Background(), repo.nextID)
	if !errors.Is(err, domain.ErrNotCancellable) {
		t.Errorf("Cancel() error = %v, want ErrNotCancellable", err)
	}
}

func TestConfirmTerminalReservation(t *testing.T) {
	svc, repo, _ := newTestService()

	repo.nextID++
	repo.items[repo.nextID] = &domain.Reservation{
		ID:              repo.nextID,
		Status:          domain.StatusCancelled,
		ReservationDate: time.Now().Add(3 * time.Hour),
	}

	_, err := svc.Confirm(context.Background(), repo.nextID)
	if !errors.Is(err, domain.ErrInvalidStatusTransition) {
		t.Errorf("Confirm() error = %v, want ErrInvalidStatusTransition", err)
	}
}

func TestListInvalidRange(t *testing.T) {
	svc, _, _ := newTestService()

	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := svc.List(context.Background(), interfaces.ReservationFilter{
		StartDate: &start,
		EndDate:   &end,
	})
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Errorf("List() error = %v, want ErrInvalidRange", err)
	}
}

func TestListClampsPerPage(t *testing.T) {
	svc, repo, _ := newTestService()

	_, _, err := svc.List(context.Background(), interfaces.ReservationFilter{PerPage: 200})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if repo.lastFilter.PerPage != interfaces.MaxPerPage {
		t.Errorf("PerPage = %d, want %d", repo.lastFilter.PerPage, interfaces.MaxPerPage)
	}
}

func TestListIgnoresUnknownStatus(t *testing.T) {
	svc, repo, _ := newTestService()

	_, _, err := svc.List(context.Background(), interfaces.ReservationFilter{Status: "archived"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if repo.lastFilter.Status != "" {
		t.Errorf("Status filter = %q, want dropped", repo.lastFilter.Status)
	}
}

func TestListFiltersAndTotalCount(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	base := validCommand()
	for i := 0; i < 3; i++ {
		cmd := base
		cmd.ReservationDate = base.ReservationDate.Add(time.Duration(i) * 30 * time.Minute)
		if _, err := svc.Create(ctx, cmd); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	items, total, err := svc.List(ctx, interfaces.ReservationFilter{PerPage: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3 (count must ignore pagination)", total)
	}
	if len(items) != 2 {
		t.Errorf("len(items) = %d, want 2", len(items))
	}
	if len(items) == 2 && items[0].ReservationDate.After(items[1].ReservationDate) {
		t.Error("items not sorted ascending by reservation date")
	}
}

func TestUpdateReservation(t *testing.T) {
	svc, _, pub := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validCommand())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	partySize := 6
	updated, err := svc.Update(ctx, created.ID, interfaces.UpdateReservationCommand{PartySize: &partySize})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.PartySize != 6 {
		t.Errorf("PartySize = %d, want 6", updated.PartySize)
	}
	if len(pub.published) != 1 {
		t.Errorf("published %d notifications, want 1 (updates must not notify)", len(pub.published))
	}

	bad := 20
	_, err = svc.Update(ctx, created.ID, interfaces.UpdateReservationCommand{PartySize: &bad})
	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Errorf("Update() error = %v, want ValidationErrors", err)
	}
}

func TestDeleteReservation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validCommand())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete(unknown) error = %v, want ErrNotFound", err)
	}
}
