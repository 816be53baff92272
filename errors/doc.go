/*
Package errors provides semantic error types for the dynasource connector.

The package defines the failure taxonomy of the extraction engine with
specific types that can be checked using the standard errors.Is() function
or the provided helper functions.

Common Errors:

	var (
	    ErrConnectivity           = errors.New("store unreachable")
	    ErrUnsupportedCursorType  = errors.New("unsupported cursor type")
	    ErrMissingCursorAttribute = errors.New("cursor attribute not in schema")
	    ErrClosed                 = errors.New("already closed")
	    ErrInvalidInput           = errors.New("invalid input")
	)

Usage:

	// Check error type
	it, err := src.Read(ctx, catalog, state)
	if err != nil {
	    if errors.IsUnsupportedCursorType(err) {
	        // The configured cursor field cannot be compared; fix the catalog.
	        return err
	    }
	    return err
	}

	// Create typed errors
	err := errors.NewUnsupportedCursorTypeError("price", "number")
	err := errors.NewMissingCursorAttributeError("orders", "updated_at")

Planning-time errors (cursor type and attribute resolution) are fatal for the
affected stream; connectivity errors are fatal for the whole invocation.
The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
