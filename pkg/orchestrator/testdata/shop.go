package shop

import "time"

// User is a shop customer.
//
//buildergen:generate
type User struct {
	Name   string
	Email  *string
	Joined time.Time
	Tags   []string `builder:"each=AddTag"`
}
