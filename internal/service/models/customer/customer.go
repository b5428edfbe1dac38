package customer

import "github.com/google/uuid"

// Customer represents an entry in the customer directory. The placement
// workflow only reads customers, it never mutates them.
type Customer struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}
