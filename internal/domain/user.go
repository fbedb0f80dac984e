package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID
	Username  string
	Roles     []Role
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
