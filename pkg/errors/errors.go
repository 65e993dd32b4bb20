package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ResourceNotFoundError indicates a resource was not found.
type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func NewResourceNotFoundError(kind, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: kind, ID: id}
}

func (e *ResourceNotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// EntityNotFoundError indicates the requested entity is not declared in the registry.
type EntityNotFoundError struct {
	Name string
}

func NewEntityNotFoundError(name string) *EntityNotFoundError {
	return &EntityNotFoundError{Name: name}
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("entity %q not found", e.Name)
}

func IsEntityNotFoundError(err error) bool {
	var e *EntityNotFoundError
	return errors.As(err, &e)
}

// SchemaError reports every problem found in one entity definition.
type SchemaError struct {
	Entity   string
	Problems []string
}

func NewSchemaError(entity string, problems ...string) *SchemaError {
	return &SchemaError{Entity: entity, Problems: problems}
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("entity %q: %s", e.Entity, strings.Join(e.Problems, "; "))
}

// IsSchemaError checks if the error is a SchemaError.
func IsSchemaError(err error) bool {
	var e *SchemaError
	return errors.As(err, &e)
}
