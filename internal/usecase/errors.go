package usecase

import (
	"fmt"
	"sort"
	"strings"

	"movie-ticketing/internal/data/entity"

	"github.com/google/uuid"
)

// ValidationError carries every failed rule keyed by request field, so
// several messages for one field reach the client together.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil keeps callers from returning a typed nil inside an error interface.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.Fields[f], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fromFieldMap converts validator output into a ValidationError.
func fromFieldMap(errs map[string]string) *ValidationError {
	v := NewValidationError()
	for field, msg := range errs {
		v.Add(field, msg)
	}
	return v
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID uuid.UUID
	Role   entity.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// canAccess reports whether the actor may act on a resource owned by ownerID.
func (a Actor) canAccess(ownerID uuid.UUID) bool {
	return a.IsAdmin() || a.UserID == ownerID
}
