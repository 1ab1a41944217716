package model

import (
	"eventhub/shared/model"
	"slices"
	"time"

	"github.com/lib/pq"
)

const (
	TableName  = "vendors"
	EntityName = "vendor"

	FieldID           = "id"
	FieldUserID       = "user_id"
	FieldName         = "name"
	FieldCategory     = "category"
	FieldStatus       = "status"
	FieldProfileImage = "profile_image"
	FieldGallery      = "gallery"
	FieldRating       = "rating"
)

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

const (
	DefaultCategory    = "Decoration"
	DefaultDescription = "New vendor offering services"
)

// Vendor is the public business profile of a vendor user. One per user.
type Vendor struct {
	ID           string         `db:"id"`
	UserID       string         `db:"user_id"`
	Name         string         `db:"name"`
	Category     string         `db:"category"`
	Description  string         `db:"description"`
	Price        float64        `db:"price"`
	ProfileImage string         `db:"profile_image"`
	Gallery      pq.StringArray `db:"gallery"`
	Status       string         `db:"status"`
	OwnerName    string         `db:"owner_name"`
	Email        string         `db:"email"`
	Phone        string         `db:"phone"`
	Address      string         `db:"address"`
	Website      string         `db:"website"`
	Rating       float64        `db:"rating"`
	Reviews      Reviews        `db:"reviews"`
	model.Metadata
}

type Review struct {
	UserID  string    `json:"user_id"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
	Date    time.Time `json:"date"`
}

// Reviews is stored as a JSONB array.
type Reviews = model.JSONList[Review]

var transitions = map[string][]string{
	StatusPending:   {StatusActive, StatusSuspended},
	StatusActive:    {StatusSuspended},
	StatusSuspended: {StatusActive},
}

// CanTransition reports whether an admin may move a vendor from one status to
// another. Setting the current status again is always allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}

	return slices.Contains(transitions[from], to)
}
