package models

import "time"

// Role is the access level of a user.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User represents an account holder. Accounts authenticate with an emailed
// confirmation code, never with the password field.
type User struct {
	ID               uint      `json:"-" gorm:"primaryKey"`
	Username         string    `json:"username" gorm:"type:varchar(50);not null;unique;uniqueIndex:unique_user,priority:1"`
	Email            string    `json:"email" gorm:"type:varchar(254);not null;unique;uniqueIndex:unique_user,priority:2"`
	FirstName        string    `json:"first_name" gorm:"type:varchar(150)"`
	LastName         string    `json:"last_name" gorm:"type:varchar(150)"`
	Bio              string    `json:"bio" gorm:"type:text"`
	Role             Role      `json:"role" gorm:"type:varchar(20);not null;default:user"`
	ConfirmationCode *string   `json:"-" gorm:"type:varchar(20)"`
	Password         string    `json:"-" gorm:"type:varchar(255)"`
	IsStaff          bool      `json:"-" gorm:"not null;default:false"`
	IsSuperuser      bool      `json:"-" gorm:"not null;default:false"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

// IsAdmin treats staff and superusers as admins regardless of role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsStaff || u.IsSuperuser
}

// IsModerator reports whether the user holds the moderator role.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}
