package user

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the portal account. This subsystem only reads it.
type User struct {
	id           uint
	name         string
	email        string
	passwordHash string
	phoneNumber  string
	websiteURL   string
	createdAt    time.Time
}

func ReconstructUser(id uint, name, email, passwordHash, phoneNumber, websiteURL string, createdAt time.Time) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	return &User{
		id:           id,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		phoneNumber:  phoneNumber,
		websiteURL:   websiteURL,
		createdAt:    createdAt,
	}, nil
}

func (u *User) ID() uint             { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) PhoneNumber() string  { return u.phoneNumber }
func (u *User) WebsiteURL() string   { return u.websiteURL }
func (u *User) CreatedAt() time.Time { return u.createdAt }

// VerifyPassword checks plain against the stored bcrypt hash.
func (u *User) VerifyPassword(plain string) bool {
	if u.passwordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(plain)) == nil
}
