// Package models defines the persisted record types shared by repositories
// and services.
package models

import "time"

// User is an identity record. PasswordHash is only ever produced by the
// password hasher, never taken from user input directly.
type User struct {
	ID            int64
	Username      string
	Email         string
	PasswordHash  string
	IsActive      bool
	AgreedToTerms bool
	CreatedAt     time.Time
}
