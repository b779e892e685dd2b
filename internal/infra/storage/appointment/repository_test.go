package appointment

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/ptr"
	"github.com/m04kA/SMC-BarberBooking/pkg/txmanager"
)

func TestClassifyInsertError(t *testing.T) {
	t.Run("exclusion violation is a slot conflict", func(t *testing.T) {
		err := classifyInsertError(&pq.Error{Code: "23P01", Constraint: "appointments_no_overlap"})
		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("idempotency key duplicate", func(t *testing.T) {
		err := classifyInsertError(&pq.Error{Code: "23505", Constraint: "appointments_idempotency_key"})
		assert.ErrorIs(t, err, ErrDuplicateIdempotencyKey)
	})

	t.Run("other unique violation stays an exec error", func(t *testing.T) {
		err := classifyInsertError(&pq.Error{Code: "23505", Constraint: "appointments_pkey"})
		assert.ErrorIs(t, err, ErrExecQuery)
		assert.NotErrorIs(t, err, ErrDuplicateIdempotencyKey)
	})

	t.Run("serialization failure survives wrapping", func(t *testing.T) {
		err := classifyInsertError(&pq.Error{Code: "40001"})
		assert.ErrorIs(t, err, ErrExecQuery)
		assert.True(t, txmanager.IsSerializationFailure(err))
	})

	t.Run("plain error", func(t *testing.T) {
		err := classifyInsertError(errors.New("connection reset"))
		assert.ErrorIs(t, err, ErrExecQuery)
	})
}

func TestBuildListQuery(t *testing.T) {
	shopID := uuid.New()
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	query, args, err := buildListQuery(domain.AppointmentsFilter{
		ShopID: &shopID,
		From:   &from,
		To:     &to,
		Status: ptr.Ptr(domain.StatusBooked),
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM appointments")
	assert.Contains(t, query, "barber_shop_id = $1")
	assert.Contains(t, query, "start_time >= $2")
	assert.Contains(t, query, "start_time < $3")
	assert.Contains(t, query, "status = $4")
	assert.Contains(t, query, "ORDER BY start_time ASC")
	// squirrel разворачивает driver.Valuer, uuid уходит в драйвер строкой
	assert.Equal(t, []interface{}{shopID.String(), from, to, domain.StatusBooked}, args)
}

func TestBuildListQuery_Customer(t *testing.T) {
	customer := uuid.New()

	query, args, err := buildListQuery(domain.AppointmentsFilter{CustomerID: &customer}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "customer_id = $1")
	assert.NotContains(t, query, "barber_shop_id =")
	assert.Equal(t, []interface{}{customer.String()}, args)
}

func TestBuildOverlapQuery(t *testing.T) {
	chairID := uuid.New()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)

	query, args, err := buildOverlapQuery(chairID, start, end, true).ToSql()
	require.NoError(t, err)

	// Только живые записи, пересечение полуоткрытое: касание границ конфликтом не считается
	assert.Contains(t, query, "FROM appointments")
	assert.Contains(t, query, "station_id = $1 AND status = $2")
	assert.Contains(t, query, "start_time < $3")
	assert.Contains(t, query, "end_time > $4")
	assert.NotContains(t, query, "<=")
	assert.NotContains(t, query, ">=")
	assert.True(t, strings.HasSuffix(query, "FOR UPDATE"), query)
	assert.Equal(t, []interface{}{chairID.String(), domain.StatusBooked, end, start}, args)

	query, _, err = buildOverlapQuery(chairID, start, end, false).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, query, "FOR UPDATE")
}
