package model

import "time"

// SlotLock is an advisory lock serializing validate-then-insert for one
// (space, date) booking group. The unique _id doubles as the lock key;
// ExpiresAt bounds the damage of a crashed holder.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
