package models

import "time"

const (
	// RoleStudent marks accounts that receive and take assignments.
	RoleStudent = "student"
	// RoleTeacher marks accounts that author questions and tests.
	RoleTeacher = "teacher"
)

// User represents a student or teacher account.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Username  string    `gorm:"size:128;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Name      string    `gorm:"size:255" json:"name"`
	Role      string    `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// IsTeacher reports whether the account may author tests.
func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher
}
