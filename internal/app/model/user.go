package model

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"type:varchar(254);uniqueIndex:idx_users_email;not null" json:"email"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex:idx_users_username;not null" json:"username"`
	FirstName    string    `gorm:"type:varchar(150);not null" json:"first_name"`
	LastName     string    `gorm:"type:varchar(150);not null" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         UserRole  `gorm:"type:varchar(20);default:'user'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Dependents removed together with the user.
	Recipes       []Recipe         `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Subscriptions []Subscription   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Followers     []Subscription   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Favorites     []FavoriteRecipe `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CartItems     []ShoppingCart   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
