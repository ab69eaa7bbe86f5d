// Package models defines the core data structures of the memorial registry:
// heroes, monuments, their attachments and the admin session.
package models

import (
	"fmt"
	"strings"
)

// Entity is a record with a server-assigned identity that can be checked
// for required fields before it is sent to the server.
type Entity interface {
	// EntityID returns the server-assigned identifier, 0 for drafts.
	EntityID() int64
	// Validate reports missing required fields as *ValidationError.
	Validate() error
}

// ValidationError lists the required fields that are empty.
// It is produced on the client before any network call.
type ValidationError struct {
	// Entity is the kind of record being validated ("hero", "monument", ...).
	Entity string
	// Fields holds the JSON names of the missing fields in declaration order.
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: missing required fields: %s", e.Entity, strings.Join(e.Fields, ", "))
}

// requiredFields collects missing field names and returns nil when none are missing.
type requiredFields struct {
	entity  string
	missing []string
}

func (r *requiredFields) str(name, v string) {
	if strings.TrimSpace(v) == "" {
		r.missing = append(r.missing, name)
	}
}

func (r *requiredFields) num(name string, v int) {
	if v == 0 {
		r.missing = append(r.missing, name)
	}
}

func (r *requiredFields) err() error {
	if len(r.missing) == 0 {
		return nil
	}
	return &ValidationError{Entity: r.entity, Fields: r.missing}
}

// AuthSession is the admin credential pair issued by POST /auth.
type AuthSession struct {
	// Token is the opaque bearer token.
	Token string `json:"token"`
	// Login is the admin username the token was issued to.
	Login string `json:"login"`
}

// IsAuthenticated reports whether the session carries a token.
// No format checks are made; the server decides validity.
func (s AuthSession) IsAuthenticated() bool {
	return s.Token != ""
}
