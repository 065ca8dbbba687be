package domain

import "time"

type UserRole string

const (
	UserRoleAdmin    UserRole = "ADMIN"
	UserRoleManager  UserRole = "MANAGER"
	UserRoleOperator UserRole = "OPERATOR"
	UserRoleDirector UserRole = "DIRECTOR"
	UserRoleAuditor  UserRole = "AUDITOR"
)

type User struct {
	ID           string
	Username     string
	PasswordHash string
	FullName     string
	Role         UserRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
