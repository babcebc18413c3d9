package model

import "time"

// Member is a library member who can keep borrowed books.
type Member struct {
	ID        string    `json:"userId" db:"user_id"`
	Cname     string    `json:"userCname" db:"user_cname"`
	Ename     string    `json:"userEname" db:"user_ename"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

