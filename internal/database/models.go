package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persistence model for the users table.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Email        string    `bun:"email,notnull"`
	Username     string    `bun:"username,notnull,default:''"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:now()"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:now()"`
}

// Note is the persistence model for the notes table.
type Note struct {
	bun.BaseModel `bun:"table:notes,alias:n"`

	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Title     string    `bun:"title,notnull,default:''"`
	Content   string    `bun:"content,notnull,default:''"`
	Tags      []string  `bun:"tags,array"`
	Pinned    bool      `bun:"pinned,notnull,default:false"`
	OwnerID   uuid.UUID `bun:"owner_id,type:uuid,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:now()"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:now()"`
}
