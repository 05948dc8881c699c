package user

import "context"

// Repository defines the interface for user data operations.
// Lookups that match nothing return (nil, nil).
type Repository interface {
	// Create inserts the user and assigns its ID. Email or username collisions
	// return ErrEmailTaken or ErrUsernameTaken.
	Create(ctx context.Context, user *User) error

	GetByID(ctx context.Context, id uint) (*User, error)

	GetByEmail(ctx context.Context, email string) (*User, error)

	GetByUsername(ctx context.Context, username string) (*User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// Update saves credential and status fields.
	Update(ctx context.Context, user *User) error
}
