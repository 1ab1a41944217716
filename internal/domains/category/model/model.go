package model

import "eventhub/shared/model"

const (
	TableName  = "categories"
	EntityName = "category"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldIcon        = "icon"
	FieldIsActive    = "is_active"

	DefaultIcon = "🎪"
)

// Category names are unique regardless of case. A category still used by
// vendors is deactivated instead of deleted.
type Category struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Icon        string `db:"icon"`
	IsActive    bool   `db:"is_active"`
	model.Metadata
}
