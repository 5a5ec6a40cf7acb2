package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	FirstName string     `gorm:"size:50;not null" json:"firstName"`
	LastName  string     `gorm:"size:50;not null" json:"lastName"`
	Email     string     `gorm:"size:100;unique;not null" json:"email"`
	Password  string     `gorm:"size:100;not null" json:"-"`
	Role      UserRole   `gorm:"type:enum('student','teacher','admin');default:'student'" json:"role"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
