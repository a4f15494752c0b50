// Package model defines data structure.
package model

import "time"

// Message holds information about a single posted message. ID and CreatedAt
// are assigned by the store on insert.
type Message struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Body      string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
