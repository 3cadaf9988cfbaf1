package domain

import "time"

type User struct {
	ID        int
	Name      string
	Email     string
	Role      string
	CreatedAt time.Time
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
