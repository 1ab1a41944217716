package dto

import (
	productDto "eventhub/internal/domains/product/model/dto"
	"eventhub/internal/domains/vendors/model"
	"eventhub/shared/constant"
	gDto "eventhub/shared/dto"
	gModel "eventhub/shared/model"
	"eventhub/shared/timezone"
	"strings"

	"github.com/google/uuid"
)

// CreateVendorRequest backs POST /vendor/add.
type CreateVendorRequest struct {
	Name        string   `json:"name"        validate:"required,max=100"`
	Category    string   `json:"category"    validate:"omitempty,max=100"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	Price       float64  `json:"price"       validate:"gte=0"`
	Images      []string `json:"images"      validate:"omitempty,dive,max=500"`
}

func (r *CreateVendorRequest) ToModel(userID, email, phone string) model.Vendor {
	now := timezone.Now()

	category := strings.TrimSpace(r.Category)
	if category == "" {
		category = model.DefaultCategory
	}

	return model.Vendor{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        strings.TrimSpace(r.Name),
		Category:    category,
		Description: strings.TrimSpace(r.Description),
		Price:       r.Price,
		Gallery:     r.Images,
		Status:      model.StatusPending,
		OwnerName:   strings.TrimSpace(r.Name),
		Email:       email,
		Phone:       phone,
		Reviews:     model.Reviews{},
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  userID,
			ModifiedBy: userID,
		},
	}
}

// NewPlaceholder is the profile created alongside a vendor registration.
func NewPlaceholder(userID, name, email, phone string) model.Vendor {
	now := timezone.Now()

	return model.Vendor{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Category:    model.DefaultCategory,
		Description: model.DefaultDescription,
		Status:      model.StatusPending,
		OwnerName:   name,
		Email:       email,
		Phone:       phone,
		Gallery:     []string{},
		Reviews:     model.Reviews{},
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  userID,
			ModifiedBy: userID,
		},
	}
}

// UpdateProfileRequest is a partial update; empty fields keep their value.
type UpdateProfileRequest struct {
	Name        string `db:"name"        json:"name"        validate:"omitempty,max=100"`
	OwnerName   string `db:"owner_name"  json:"owner_name"  validate:"omitempty,max=100"`
	Email       string `db:"email"       json:"email"       validate:"omitempty,email,max=100"`
	Phone       string `db:"phone"       json:"phone"       validate:"omitempty,max=20"`
	Address     string `db:"address"     json:"address"     validate:"omitempty,max=300"`
	Description string `db:"description" json:"description" validate:"omitempty,max=2000"`
	Website     string `db:"website"     json:"website"     validate:"omitempty,url,max=300"`
	Category    string `db:"category"    json:"category"    validate:"omitempty,max=100"`
}

func (r *UpdateProfileRequest) Apply(m *model.Vendor) {
	for _, field := range []struct {
		value  string
		target *string
	}{
		{r.Name, &m.Name},
		{r.OwnerName, &m.OwnerName},
		{r.Email, &m.Email},
		{r.Phone, &m.Phone},
		{r.Address, &m.Address},
		{r.Description, &m.Description},
		{r.Website, &m.Website},
		{r.Category, &m.Category},
	} {
		if field.value != "" {
			*field.target = field.value
		}
	}
}

// UpdateVendorRequest backs the legacy PUT /vendor/{id}.
type UpdateVendorRequest struct {
	Name        string   `db:"name"        json:"name"        validate:"omitempty,max=100"`
	Category    string   `db:"category"    json:"category"    validate:"omitempty,max=100"`
	Description string   `db:"description" json:"description" validate:"omitempty,max=2000"`
	Price       *float64 `db:"price"       json:"price"       validate:"omitempty,gte=0"`
	Images      []string `db:"-"           json:"images"      validate:"omitempty,dive,max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active pending suspended"`
}

type ReviewResponse struct {
	UserID  string `json:"user_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Date    string `json:"date"`
}

type VendorResponse struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	Description  string           `json:"description"`
	Price        float64          `json:"price"`
	ProfileImage string           `json:"profile_image"`
	Gallery      []string         `json:"gallery"`
	Status       string           `json:"status"`
	OwnerName    string           `json:"owner_name"`
	Email        string           `json:"email"`
	Phone        string           `json:"phone"`
	Address      string           `json:"address"`
	Website      string           `json:"website"`
	Rating       float64          `json:"rating"`
	Reviews      []ReviewResponse `json:"reviews"`
	gDto.Metadata
}

// FromModel copies the vendor; imageURL maps stored image references to public URLs.
func (r *VendorResponse) FromModel(m model.Vendor, imageURL func(string) string) {
	r.ID = m.ID
	r.UserID = m.UserID
	r.Name = m.Name
	r.Category = m.Category
	r.Description = m.Description
	r.Price = m.Price
	r.ProfileImage = imageURL(m.ProfileImage)
	r.Status = m.Status
	r.OwnerName = m.OwnerName
	r.Email = m.Email
	r.Phone = m.Phone
	r.Address = m.Address
	r.Website = m.Website
	r.Rating = m.Rating

	r.Gallery = make([]string, 0, len(m.Gallery))
	for _, image := range m.Gallery {
		r.Gallery = append(r.Gallery, imageURL(image))
	}

	r.Reviews = make([]ReviewResponse, len(m.Reviews))
	for i, review := range m.Reviews {
		r.Reviews[i] = ReviewResponse{
			UserID:  review.UserID,
			Rating:  review.Rating,
			Comment: review.Comment,
			Date:    timezone.Format(review.Date, constant.DateFormat),
		}
	}

	r.Metadata.FromModel(m.Metadata)
}

func FromModels(models []model.Vendor, imageURL func(string) string) []VendorResponse {
	res := make([]VendorResponse, len(models))
	for i, m := range models {
		res[i].FromModel(m, imageURL)
	}

	return res
}

type VendorDetailResponse struct {
	VendorResponse
	Products []productDto.ProductResponse `json:"products"`
}

type ProfileImageResponse struct {
	Message      string `json:"message"`
	ProfileImage string `json:"profile_image"`
	ImageURL     string `json:"image_url"`
}

type StatusResponse struct {
	Message string        `json:"message"`
	Vendor  VendorSummary `json:"vendor"`
}

type VendorSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type DeleteDetails struct {
	ProductsDeleted int64 `json:"products_deleted"`
	BookingsDeleted int64 `json:"bookings_deleted"`
	UserDeleted     bool  `json:"user_deleted"`
	VendorDeleted   bool  `json:"vendor_deleted"`
}

type DeleteResponse struct {
	Message string        `json:"message"`
	Details DeleteDetails `json:"details"`
}
