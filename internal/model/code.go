package model

// Code is a value/label pair used to fill dropdowns.
type Code struct {
	Value string `json:"value" db:"value"`
	Label string `json:"label" db:"label"`
}

// BookClass is a catalog classification.
type BookClass struct {
	ID       string `db:"book_class_id"`
	Name     string `db:"book_class_name"`
	HasImage bool   `db:"has_image"`
}
