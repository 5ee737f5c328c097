package errors_test

import (
	"fmt"

	"github.com/openfield/gleaner/pkg/errors"
)

// Example demonstrates basic error creation and checking.
func Example() {
	// Create a not found error
	err := &errors.NotFoundError{
		Resource: "record",
		ID:       "abcd-1234",
	}

	// Check error type
	if errors.IsNotFound(err) {
		fmt.Println("Record not found")
	}

	// Output: Record not found
}

// Example_transportError demonstrates catalog API error handling.
func Example_transportError() {
	// Simulate a catalog API error
	err := &errors.TransportError{
		Domain:     "data.example.gov",
		Endpoint:   "https://api.us.socrata.com/api/catalog/v1",
		StatusCode: 429,
		Message:    "Rate limit exceeded",
	}

	// Check and handle specific status codes
	switch err.StatusCode {
	case 429:
		fmt.Println("Rate limited - retry later")
	case 401:
		fmt.Println("Authentication failed")
	case 500:
		fmt.Println("Server error")
	}

	// Output: Rate limited - retry later
}

// Example_storeAnomalyError shows how identifier collisions surface.
func Example_storeAnomalyError() {
	// Two local records claim the same external identifier
	err := errors.NewStoreAnomalyError("abcd-1234", 2, "using first match")

	fmt.Println(err.Error())

	// Output: store anomaly for identifier abcd-1234 (2 matches): using first match
}

// Example_storeOperationError demonstrates stage-labelled store failures.
func Example_storeOperationError() {
	err := errors.NewStoreOperationError("Import", "create", "abcd-1234", errors.New("duplicate name"))

	fmt.Println(err.Error())

	// Output: Import stage: failed to create record for abcd-1234: duplicate name
}
