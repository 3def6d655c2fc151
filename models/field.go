package models

import "time"

// Field — площадка центра, на которой проводится турнир.
// Управляется внешним реестром полей, здесь только читается.
type Field struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	City      *string   `json:"city,omitempty" db:"city"`
	Region    *string   `json:"region,omitempty" db:"region"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
