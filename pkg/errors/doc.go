// Package errors provides the error types shared by the registry, store,
// services and handlers.
//
// Each error type includes a constructor, Error() method, and a type-checking
// helper using errors.As for proper error unwrapping.
//
// # Error Types Overview
//
//	┌──────────────────────────┬────────┬─────────────────────────────────────┐
//	│ Error Type               │ HTTP   │ Description                         │
//	├──────────────────────────┼────────┼─────────────────────────────────────┤
//	│ ResourceNotFoundError    │ 404    │ No row matches the requested key    │
//	│ EntityNotFoundError      │ 404    │ Entity is not declared              │
//	│ SchemaError              │ n/a    │ Invalid entity definition at load   │
//	│ query.ValidationError    │ 400    │ Unknown dimension, metric or filter │
//	└──────────────────────────┴────────┴─────────────────────────────────────┘
//
// query.ValidationError lives next to the compiler in pkg/query.
//
// # Type Checking Pattern
//
// All error types provide Is* helper functions that use errors.As
// for proper error chain unwrapping:
//
//	wrapped := fmt.Errorf("get user: %w", errors.NewResourceNotFoundError("user", "42"))
//	errors.IsResourceNotFoundError(wrapped) // returns true
//
// # Handler Error Mapping
//
//	switch {
//	case query.IsValidationError(err):
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	case errors.IsEntityNotFoundError(err), errors.IsResourceNotFoundError(err):
//	    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
//	}
//
// SchemaError is returned by the registry loader and aborts startup. Problems
// from several entities are combined with errors.Join.
package errors
