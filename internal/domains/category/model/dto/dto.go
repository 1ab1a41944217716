package dto

import (
	"eventhub/internal/domains/category/model"
	gDto "eventhub/shared/dto"
	gModel "eventhub/shared/model"
	"eventhub/shared/timezone"
	"strings"

	"github.com/google/uuid"
)

type CreateCategoryRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=500"`
	Icon        string `json:"icon"        validate:"omitempty,max=20"`
}

func (r *CreateCategoryRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Icon = strings.TrimSpace(r.Icon)
}

func (r *CreateCategoryRequest) ToModel(user string) model.Category {
	now := timezone.Now()

	icon := r.Icon
	if icon == "" {
		icon = model.DefaultIcon
	}

	return model.Category{
		ID:          uuid.NewString(),
		Name:        r.Name,
		Description: r.Description,
		Icon:        icon,
		IsActive:    true,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateCategoryRequest is a partial update. IsActive is a pointer so an
// explicit false is applied.
type UpdateCategoryRequest struct {
	Name        string `db:"name"        json:"name"        validate:"omitempty,max=100"`
	Description string `db:"description" json:"description" validate:"omitempty,max=500"`
	Icon        string `db:"icon"        json:"icon"        validate:"omitempty,max=20"`
	IsActive    *bool  `db:"is_active"   json:"is_active"`
}

func (r *UpdateCategoryRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Icon = strings.TrimSpace(r.Icon)
}

func (r *UpdateCategoryRequest) Apply(m *model.Category) {
	if r.Name != "" {
		m.Name = r.Name
	}

	if r.Description != "" {
		m.Description = r.Description
	}

	if r.Icon != "" {
		m.Icon = r.Icon
	}

	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
}

type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IsActive    bool   `json:"is_active"`
	gDto.Metadata
}

func (r *CategoryResponse) FromModel(m model.Category) {
	r.ID = m.ID
	r.Name = m.Name
	r.Description = m.Description
	r.Icon = m.Icon
	r.IsActive = m.IsActive
	r.Metadata.FromModel(m.Metadata)
}

func FromModels(models []model.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(models))
	for i, m := range models {
		res[i].FromModel(m)
	}

	return res
}

type AdminCategoryResponse struct {
	CategoryResponse
	VendorCount int `json:"vendor_count"`
}

// FromModelsWithCounts attaches the active vendor count keyed by lowercased name.
func FromModelsWithCounts(models []model.Category, counts map[string]int) []AdminCategoryResponse {
	res := make([]AdminCategoryResponse, len(models))
	for i, m := range models {
		res[i].FromModel(m)
		res[i].VendorCount = counts[strings.ToLower(m.Name)]
	}

	return res
}

type DeleteCategoryResponse struct {
	Message  string            `json:"message"`
	Category *CategoryResponse `json:"category,omitempty"`
}
