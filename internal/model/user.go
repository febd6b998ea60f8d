package model

import "time"

// User is the persisted account record. PasswordDigest is opaque to the
// rest of the system and must never be serialized to clients.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	PasswordDigest string    `json:"-"`
	Email          string    `json:"email"`
	CreatedAt      time.Time `json:"created_at"`
}

// PublicUser is the client-visible projection of a User.
type PublicUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// UserPatch carries the mutable fields of an update. Nil means "leave
// unchanged". Password, when set, is plaintext and is re-hashed before it
// reaches the repository.
type UserPatch struct {
	Username *string
	Email    *string
	Password *string
}

func (p UserPatch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.Password == nil
}
