package models

import "time"

// Review is a write-once rating left by a client.
type Review struct {
	ID             ID        `json:"id"`
	UserID         ID        `json:"user_id"`
	PhotographerID ID        `json:"photographer_id"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ReviewRequest is the form body for POST /reviews/{photographerID}.
type ReviewRequest struct {
	Rating  int    `form:"rating" validate:"required,gte=1,lte=5"`
	Comment string `form:"comment" validate:"max=2000"`
}
