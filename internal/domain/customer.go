package domain

import (
	"time"
)

// Customer representa um cliente. Não é alterado após a criação.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerCreateRequest é o payload de criação de cliente.
type CustomerCreateRequest struct {
	Name  string  `json:"name" validate:"required,max=255"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=50"`
}
