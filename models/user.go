package models

// User roles
const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleGeologist = "geologist"
)

type User struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	Username string  `json:"username" gorm:"unique;not null"`
	Email    *string `json:"email,omitempty" gorm:"unique"`
	Password string  `json:"-" gorm:"not null"` // Store hashed password
	FullName *string `json:"fullName"`
	Role     string  `json:"role" gorm:"not null;default:user"`
}
