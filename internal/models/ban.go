package models

import (
	"time"

	"github.com/google/uuid"
)

type BannedUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	BannedAt time.Time `json:"banned_at"`
}
