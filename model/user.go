package model

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Role is the access level of a user.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleResident Role = "RESIDENT"
	RoleVisitor  Role = "VISITOR"
)

var roles = []Role{RoleAdmin, RoleResident, RoleVisitor}

// User is an administrator, a resident of an apartment or a visitor.
type User struct {
	Base
	FirstName   string     `json:"firstName" gorm:"size:50;not null"`
	LastName    string     `json:"lastName" gorm:"size:50;not null"`
	Email       string     `json:"email" gorm:"size:100;not null;uniqueIndex"`
	Password    string     `json:"-" gorm:"size:120;not null"`
	Phone       string     `json:"phone,omitempty" gorm:"size:20"`
	Role        Role       `json:"role" gorm:"size:20;not null;index"`
	ApartmentID *uint      `json:"apartmentId,omitempty" gorm:"index"`
	Apartment   *Apartment `json:"apartment,omitempty" gorm:"foreignKey:ApartmentID;constraint:OnDelete:CASCADE"`
	Active      bool       `json:"active" gorm:"not null"`
}

// NewUser returns an active user with the given identity.
func NewUser(firstName, lastName, email, phone string, role Role) *User {
	return &User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phone:     phone,
		Role:      role,
		Active:    true,
	}
}

func (u *User) Validate() error {
	return firstError(
		required("firstName", u.FirstName, 50),
		required("lastName", u.LastName, 50),
		email("email", u.Email),
		required("password", u.Password, 120),
		maxLen("phone", u.Phone, 20),
		oneOf("role", u.Role, roles),
	)
}

// SetPassword stores the bcrypt hash of plain.
func (u *User) SetPassword(plain string) error {
	if err := notBlank("password", plain); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
