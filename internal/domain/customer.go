package domain

import "time"

type Customer struct {
	ID             string
	LastName       string
	FirstName      string
	MiddleName     string
	DocumentNumber string
	Phone          string
	Email          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (c Customer) FullName() string {
	name := c.LastName + " " + c.FirstName
	if c.MiddleName != "" {
		name += " " + c.MiddleName
	}
	return name
}
