package helper

import (
	"context"
	"errors"
	"fmt"
	hotelModel "hotelops/internal/domains/hotel/model"
	hotelRepo "hotelops/internal/domains/hotel/repository"
	roomModel "hotelops/internal/domains/room/model"
	roomRepo "hotelops/internal/domains/room/repository"
	userModel "hotelops/internal/domains/user/model"
	userDto "hotelops/internal/domains/user/model/dto"
	userRepo "hotelops/internal/domains/user/repository"
	"hotelops/shared"
	"hotelops/shared/constant"
	gModel "hotelops/shared/model"
	"hotelops/shared/password"
	"hotelops/shared/timezone"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/semaphore"
)

const (
	seedActor       = "seeder"
	roomsPerType    = 5
	defaultWorkers  = 1
	adminFullName   = "Hotel Administrator"
	roomDescription = "Comfortable %s room with modern amenities"
)

var ErrMissingAdminPassword = errors.New("seed admin password is required")

type roomTemplate struct {
	Type     roomModel.Type
	Price    string
	Capacity int
	Beds     int
}

var roomTemplates = []roomTemplate{
	{Type: roomModel.TypeStandard, Price: "100.00", Capacity: 2, Beds: 1},
	{Type: roomModel.TypeDeluxe, Price: "250.00", Capacity: 3, Beds: 2},
	{Type: roomModel.TypeSuite, Price: "400.00", Capacity: 4, Beds: 2},
	{Type: roomModel.TypePresidential, Price: "800.00", Capacity: 6, Beds: 3},
}

var seedHotels = []hotelModel.Hotel{
	{
		Name: "Grand Plaza Hotel", Address: "123 Main Street", City: "New York", Country: "USA",
		Description: "Luxury hotel in the heart of Manhattan", Phone: "+12125550100", Email: "info@grandplaza.com",
		Rating: decimal.RequireFromString("4.5"),
	},
	{
		Name: "Sunset Beach Resort", Address: "456 Ocean Drive", City: "Miami", Country: "USA",
		Description: "Beachfront resort with ocean views", Phone: "+13055550200", Email: "info@sunsetbeach.com",
		Rating: decimal.RequireFromString("4.8"),
	},
	{
		Name: "Mountain View Lodge", Address: "789 Mountain Road", City: "Denver", Country: "USA",
		Description: "Lodge with mountain scenery", Phone: "+13035550300", Email: "info@mountainview.com",
		Rating: decimal.RequireFromString("4.3"),
	},
}

type SeedOptions struct {
	Workers       int
	AdminEmail    string
	AdminPassword string
}

type Seeder struct {
	hotels hotelRepo.Hotel
	rooms  roomRepo.Room
	users  userRepo.User
}

func NewSeeder(hotels hotelRepo.Hotel, rooms roomRepo.Room, users userRepo.User) Seeder {
	return Seeder{hotels: hotels, rooms: rooms, users: users}
}

// Run creates the admin account and every hotel with roomsPerType rooms of each type.
// Hotels are seeded concurrently, bounded by opts.Workers.
func (s Seeder) Run(ctx context.Context, opts SeedOptions) error {
	if err := s.seedAdmin(ctx, opts); err != nil {
		return err
	}

	workers := opts.Workers
	if workers < defaultWorkers {
		workers = defaultWorkers
	}

	sem := semaphore.NewWeighted(int64(workers))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for _, hotel := range seedHotels {
		if err := sem.Acquire(ctx, 1); err != nil {
			return fmt.Errorf("failed to acquire seed worker: %w", err)
		}

		wg.Add(1)

		go func(hotel hotelModel.Hotel) {
			defer wg.Done()
			defer sem.Release(1)

			if err := s.seedHotel(ctx, hotel); err != nil {
				log.Warn().Err(err).Str("hotel", hotel.Name).Msg("failed to seed hotel")

				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()

				return
			}

			log.Info().Str("hotel", hotel.Name).Int("rooms", len(roomTemplates)*roomsPerType).Msg("hotel seeded")
		}(hotel)
	}

	wg.Wait()

	return firstErr
}

func (s Seeder) seedAdmin(ctx context.Context, opts SeedOptions) error {
	exist, err := s.users.Exist(ctx, shared.FilterByID(opts.AdminEmail, userModel.FieldEmail, userModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}

	if exist {
		log.Info().Str("email", opts.AdminEmail).Msg("admin user already present")

		return nil
	}

	if opts.AdminPassword == constant.Empty {
		return ErrMissingAdminPassword
	}

	hash, err := password.Hash(opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	req := userDto.CreateUserRequest{
		Email:    opts.AdminEmail,
		Level:    constant.RoleAdmin,
		FullName: adminFullName,
	}

	if err = s.users.Insert(ctx, req.ToModel(seedActor, hash)); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	return nil
}

func (s Seeder) seedHotel(ctx context.Context, hotel hotelModel.Hotel) error {
	now := timezone.Now()
	metadata := gModel.Metadata{CreatedAt: now, ModifiedAt: now, CreatedBy: seedActor, ModifiedBy: seedActor}

	hotel.ID = uuid.NewString()
	hotel.Metadata = metadata

	if err := s.hotels.Insert(ctx, hotel); err != nil {
		return fmt.Errorf("failed to insert hotel: %w", err)
	}

	for _, tpl := range roomTemplates {
		for i := 1; i <= roomsPerType; i++ {
			room := roomModel.Room{
				ID:            uuid.NewString(),
				HotelID:       hotel.ID,
				RoomNumber:    fmt.Sprintf("%s%02d", strings.ToUpper(string(tpl.Type)[:1]), i),
				Type:          tpl.Type,
				Capacity:      tpl.Capacity,
				Beds:          tpl.Beds,
				Bathrooms:     1,
				PricePerNight: decimal.RequireFromString(tpl.Price),
				Status:        roomModel.StatusAvailable,
				Floor:         i/2 + 1,
				Description:   fmt.Sprintf(roomDescription, tpl.Type),
				Metadata:      metadata,
			}

			if err := s.rooms.Insert(ctx, room); err != nil {
				return fmt.Errorf("failed to insert room %s: %w", room.RoomNumber, err)
			}
		}
	}

	return nil
}
