package domain

import "context"

type UserRepository interface {
	GetUserWithEmail(ctx context.Context, email string) (User, error)
	GetUserWithID(ctx context.Context, id int64) (User, error)
	AddUser(ctx context.Context, u NewUser) (User, error)
}

type ReservationRepository interface {
	GetAllReservations(ctx context.Context, guestID int64, limit int) ([]GuestReservation, error)
}

type PropertyRepository interface {
	GetAllProperties(ctx context.Context, f PropertyFilter) ([]Property, error)
	AddProperty(ctx context.Context, p NewProperty) (Property, error)
}

// Repository is everything the storage layer offers.
type Repository interface {
	UserRepository
	ReservationRepository
	PropertyRepository
}
