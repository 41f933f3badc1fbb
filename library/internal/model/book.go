package model

import "time"

type Book struct {
	ID              int64     `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Author          string    `json:"author" db:"author"`
	ISBN            string    `json:"isbn" db:"isbn"`
	Publisher       string    `json:"publisher" db:"publisher"`
	PublicationYear int       `json:"publicationYear" db:"publication_year"`
	Category        string    `json:"category" db:"category"`
	TotalCopies     int       `json:"totalCopies" db:"total_copies"`
	AvailableCopies int       `json:"availableCopies" db:"available_copies"`
	Description     string    `json:"description" db:"description"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// OnLoan is the number of copies currently lent out.
func (b Book) OnLoan() int {
	return b.TotalCopies - b.AvailableCopies
}

type BookRequest struct {
	Title           string `json:"title" validate:"required"`
	Author          string `json:"author" validate:"required"`
	ISBN            string `json:"isbn" validate:"required"`
	Publisher       string `json:"publisher"`
	PublicationYear int    `json:"publicationYear" validate:"required"`
	Category        string `json:"category"`
	TotalCopies     int    `json:"totalCopies" validate:"required,min=1"`
	Description     string `json:"description"`
}

type BookFilter struct {
	Title         string
	Author        string
	Category      string
	AvailableOnly bool
}
