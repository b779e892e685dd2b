package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/appointment"
	shopRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/shop"
	"github.com/m04kA/SMC-BarberBooking/internal/service/appointments/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/ptr"
)

type fakeAppointmentRepo struct {
	items     map[uuid.UUID]*domain.Appointment
	filter    domain.AppointmentsFilter
	cancelErr error
	cancels   int
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Appointment, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	r.filter = filter
	out := make([]*domain.Appointment, 0, len(r.items))
	for _, a := range r.items {
		if filter.CustomerID != nil && !a.IsBookedBy(*filter.CustomerID) {
			continue
		}
		if filter.ShopID != nil && a.ShopID != *filter.ShopID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) Cancel(_ context.Context, id uuid.UUID) error {
	if r.cancelErr != nil {
		return r.cancelErr
	}
	r.cancels++
	a, ok := r.items[id]
	if !ok || !a.IsActive() {
		return appointmentRepo.ErrAppointmentNotFound
	}
	now := time.Now()
	a.Status = domain.StatusCancelled
	a.CancelledAt = &now
	return nil
}

type fakeShopRepo struct {
	shops map[uuid.UUID]*domain.Shop
}

func (r *fakeShopRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Shop, error) {
	s, ok := r.shops[id]
	if !ok {
		return nil, shopRepo.ErrShopNotFound
	}
	return s, nil
}

type fakeInvalidator struct {
	shops []uuid.UUID
}

func (f *fakeInvalidator) Invalidate(_ context.Context, shopID uuid.UUID) {
	f.shops = append(f.shops, shopID)
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc      *Service
	appts    *fakeAppointmentRepo
	inval    *fakeInvalidator
	owner    domain.Identity
	customer domain.Identity
	stranger domain.Identity
	shopID   uuid.UUID
	apptID   uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		owner:    domain.Identity{UserID: uuid.New()},
		customer: domain.Identity{UserID: uuid.New()},
		stranger: domain.Identity{UserID: uuid.New()},
		shopID:   uuid.New(),
		apptID:   uuid.New(),
		inval:    &fakeInvalidator{},
	}

	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	f.appts = &fakeAppointmentRepo{items: map[uuid.UUID]*domain.Appointment{
		f.apptID: {
			ID:           f.apptID,
			ShopID:       f.shopID,
			ChairID:      uuid.New(),
			CustomerID:   ptr.Ptr(f.customer.UserID),
			CustomerName: "Ann",
			StartTime:    start,
			EndTime:      start.Add(45 * time.Minute),
			Status:       domain.StatusBooked,
		},
	}}
	shops := &fakeShopRepo{shops: map[uuid.UUID]*domain.Shop{
		f.shopID: {ID: f.shopID, OwnerID: f.owner.UserID},
	}}

	f.svc = NewService(f.appts, shops, f.inval, inlineTx{}, logger.NewNop())
	return f
}

func TestService_GetByID_Access(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name    string
		caller  domain.Identity
		id      uuid.UUID
		wantErr error
	}{
		{"customer", f.customer, f.apptID, nil},
		{"owner", f.owner, f.apptID, nil},
		{"stranger", f.stranger, f.apptID, ErrAccessDenied},
		{"anonymous", domain.Anonymous(), f.apptID, ErrUnauthorized},
		{"unknown", f.customer, uuid.New(), ErrAppointmentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.svc.GetByID(context.Background(), tt.id, tt.caller)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, f.apptID.String(), resp.ID)
			assert.Equal(t, "booked", resp.Status)
		})
	}
}

func TestService_Cancel_ByCustomer(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Cancel(context.Background(), f.apptID, f.customer)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.NotNil(t, resp.CancelledAt)
	assert.Equal(t, []uuid.UUID{f.shopID}, f.inval.shops)
}

func TestService_Cancel_Idempotent(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Cancel(context.Background(), f.apptID, f.owner)
	require.NoError(t, err)

	resp, err := f.svc.Cancel(context.Background(), f.apptID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, 1, f.appts.cancels)
	assert.Len(t, f.inval.shops, 1)
}

func TestService_Cancel_Denied(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Cancel(context.Background(), f.apptID, f.stranger)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.Cancel(context.Background(), f.apptID, domain.Anonymous())
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.Cancel(context.Background(), uuid.New(), f.owner)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	assert.Equal(t, domain.StatusBooked, f.appts.items[f.apptID].Status)
	assert.Empty(t, f.inval.shops)
}

func TestService_Cancel_StorageError(t *testing.T) {
	f := newFixture()
	f.appts.cancelErr = errors.New("connection reset")

	_, err := f.svc.Cancel(context.Background(), f.apptID, f.customer)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.inval.shops)
}

func TestService_GetShopAppointments(t *testing.T) {
	f := newFixture()
	from := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	resp, err := f.svc.GetShopAppointments(context.Background(), &models.GetShopAppointmentsRequest{
		Caller: f.owner,
		ShopID: f.shopID,
		From:   &from,
		To:     &to,
		Status: ptr.Ptr("booked"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	require.NotNil(t, f.appts.filter.Status)
	assert.Equal(t, domain.StatusBooked, *f.appts.filter.Status)

	_, err = f.svc.GetShopAppointments(context.Background(), &models.GetShopAppointmentsRequest{
		Caller: f.customer,
		ShopID: f.shopID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetShopAppointments(context.Background(), &models.GetShopAppointmentsRequest{
		Caller: f.owner,
		ShopID: f.shopID,
		Status: ptr.Ptr("done"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.GetShopAppointments(context.Background(), &models.GetShopAppointmentsRequest{
		Caller: f.owner,
		ShopID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrShopNotFound)
}

func TestService_GetCustomerAppointments(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{Caller: f.customer})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	resp, err = f.svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{Caller: f.stranger})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)
	assert.NotNil(t, resp.Appointments)

	_, err = f.svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{Caller: domain.Anonymous()})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
