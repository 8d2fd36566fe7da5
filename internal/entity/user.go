package entity

import "database/sql"

type User struct {
	Base
	FirstName       string
	LastName        string
	Username        string `gorm:"unique"`
	Email           string `gorm:"unique;size:255"`
	PasswordHash    string
	Phone           string
	ProfileImageURL sql.NullString
}
