package factory

import "fmt"

// ErrInvalidOperation represents validation errors for operation recipes
type ErrInvalidOperation struct {
	Operation string
	Field     string
	Reason    string
}

func (e *ErrInvalidOperation) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("invalid operation %s: %s - %s", e.Operation, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid operation: %s - %s", e.Field, e.Reason)
}

// ErrInvalidResource represents validation errors for workers and machines
type ErrInvalidResource struct {
	Kind   string // "worker" or "machine"
	Name   string
	Field  string
	Reason string
}

func (e *ErrInvalidResource) Error() string {
	return fmt.Sprintf("invalid %s %q: %s - %s", e.Kind, e.Name, e.Field, e.Reason)
}

// ErrInvalidMaterial represents validation errors for inventory entries
type ErrInvalidMaterial struct {
	Material string
	Field    string
	Reason   string
}

func (e *ErrInvalidMaterial) Error() string {
	return fmt.Sprintf("invalid material %q: %s - %s", e.Material, e.Field, e.Reason)
}
