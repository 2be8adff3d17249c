package repository

import (
	"golocal-spaces/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User         UserRepository
	Space        SpaceRepository
	Amenity      AmenityRepository
	Image        ImageRepository
	Booking      BookingRepository
	Transaction  TransactionRepository
	Notification NotificationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Space:        NewSpaceRepository(db, log),
		Amenity:      NewAmenityRepository(db, log),
		Image:        NewImageRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Transaction:  NewTransactionRepository(db, log),
		Notification: NewNotificationRepository(db, log),
	}
}
