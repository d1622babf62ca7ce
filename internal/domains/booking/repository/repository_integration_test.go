//go:build integration

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelops/config"
	"hotelops/helper"
	otelMocks "hotelops/infras/otel/mocks"
	"hotelops/infras/postgres"
	"hotelops/internal/domains/booking/model"
	"hotelops/internal/domains/booking/repository"
	hotelModel "hotelops/internal/domains/hotel/model"
	hotelRepository "hotelops/internal/domains/hotel/repository"
	roomModel "hotelops/internal/domains/room/model"
	roomRepository "hotelops/internal/domains/room/repository"
	userModel "hotelops/internal/domains/user/model"
	userRepository "hotelops/internal/domains/user/repository"
	gRepo "hotelops/shared/repository"
)

const (
	pgUser     = "hotelops"
	pgPassword = "hotelops"
	pgDatabase = "hotelops"
)

func startPostgres(t *testing.T) *postgres.Connection {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=" + pgUser,
			"POSTGRES_PASSWORD=" + pgPassword,
			"POSTGRES_DB=" + pgDatabase,
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	port := resource.GetPort("5432/tcp")
	dsn := postgres.DSN(config.PostgresEndpoint{
		Host:     "localhost",
		Port:     port,
		Username: pgUser,
		Password: pgPassword,
		Name:     pgDatabase,
	}, "")

	var db *sqlx.DB

	require.NoError(t, pool.Retry(func() error {
		var e error

		db, e = sqlx.Connect("postgres", dsn)

		return e
	}))
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, helper.Migrate("file://../../../../migrations/postgres", dsn, helper.MigrateUp))

	return &postgres.Connection{Read: db, Write: db}
}

type stayFixture struct {
	bookings repository.Booking
	rooms    roomRepository.Room
	userID   string
	roomID   string
	hotelID  string
}

func newStayFixture(t *testing.T) stayFixture {
	t.Helper()

	conn := startPostgres(t)
	otl := otelMocks.NewOtel()
	ctx := context.Background()
	f := stayFixture{
		bookings: repository.New(conn, otl),
		rooms:    roomRepository.New(conn, otl),
		userID:   uuid.NewString(),
		roomID:   uuid.NewString(),
		hotelID:  uuid.NewString(),
	}

	require.NoError(t, userRepository.New(conn, otl).Insert(ctx, userModel.User{
		ID: f.userID, Email: "guest@example.com", Password: "x", Level: "guest", FullName: "Guest", Active: true,
	}))
	require.NoError(t, hotelRepository.New(conn, otl).Insert(ctx, hotelModel.Hotel{
		ID: f.hotelID, Name: "Grand Plaza Hotel", Rating: decimal.RequireFromString("4.5"),
	}))
	require.NoError(t, f.rooms.Insert(ctx, roomModel.Room{
		ID: f.roomID, HotelID: f.hotelID, RoomNumber: "S01", Type: roomModel.TypeStandard,
		Capacity: 2, Beds: 1, Bathrooms: 1, PricePerNight: decimal.RequireFromString("100.00"),
		Status: roomModel.StatusAvailable,
	}))

	return f
}

func (f stayFixture) booking(checkIn, checkOut time.Time, status model.Status) model.Booking {
	return model.Booking{
		ID:           uuid.NewString(),
		UserID:       f.userID,
		RoomID:       f.roomID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Status:       status,
		TotalPrice:   decimal.RequireFromString("300.00"),
		RoomCharges:  decimal.RequireFromString("300.00"),
	}
}

func TestBookingRepository_HalfOpenOverlap(t *testing.T) {
	f := newStayFixture(t)
	ctx := context.Background()

	d0 := time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	require.NoError(t, f.bookings.Insert(ctx, f.booking(d0, d0.Add(5*day), model.StatusCheckedIn)))

	err := f.bookings.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		inner, err := f.bookings.HasOverlapTx(ctx, tx, f.roomID, d0.Add(2*day), d0.Add(4*day), "")
		require.NoError(t, err)
		assert.True(t, inner)

		touching, err := f.bookings.HasOverlapTx(ctx, tx, f.roomID, d0.Add(5*day), d0.Add(7*day), "")
		require.NoError(t, err)
		assert.False(t, touching)

		return nil
	})
	require.NoError(t, err)

	err = f.bookings.Insert(ctx, f.booking(d0.Add(2*day), d0.Add(4*day), model.StatusCheckedIn))
	assert.True(t, errors.Is(err, gRepo.ErrExclusionViolation), "got %v", err)

	assert.NoError(t, f.bookings.Insert(ctx, f.booking(d0.Add(5*day), d0.Add(7*day), model.StatusCheckedIn)))
}

func TestBookingRepository_CancelledDoesNotBlock(t *testing.T) {
	f := newStayFixture(t)
	ctx := context.Background()

	d0 := time.Date(2026, 6, 1, 14, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	require.NoError(t, f.bookings.Insert(ctx, f.booking(d0, d0.Add(3*day), model.StatusCancelled)))
	assert.NoError(t, f.bookings.Insert(ctx, f.booking(d0.Add(day), d0.Add(2*day), model.StatusCheckedIn)))
}

func TestRoomRepository_AvailabilityWindow(t *testing.T) {
	f := newStayFixture(t)
	ctx := context.Background()

	d0 := time.Date(2026, 7, 1, 14, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	require.NoError(t, f.bookings.Insert(ctx, f.booking(d0, d0.Add(3*day), model.StatusConfirmed)))

	window := func(from, to time.Time) roomModel.AvailabilityQuery {
		return roomModel.AvailabilityQuery{HotelID: f.hotelID, CheckIn: &from, CheckOut: &to}
	}

	count, err := f.rooms.CountAvailable(ctx, window(d0.Add(day), d0.Add(2*day)))
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = f.rooms.CountAvailable(ctx, window(d0.Add(3*day), d0.Add(4*day)))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
