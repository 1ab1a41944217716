package dto

import (
	"eventhub/internal/domains/booking/model"
	"eventhub/shared/constant"
	gDto "eventhub/shared/dto"
	gModel "eventhub/shared/model"
	"eventhub/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateBookingRequest leaves product_id untagged so its absence is reported
// with its own message before the schema is checked.
type CreateBookingRequest struct {
	ProductID       string   `json:"product_id"`
	VendorID        string   `json:"vendor_id"        validate:"omitempty,uuid"`
	Date            string   `json:"date"             validate:"required"`
	Time            string   `json:"time"             validate:"omitempty,max=20"`
	EventType       string   `json:"event_type"       validate:"omitempty,max=100"`
	GuestCount      *int     `json:"guest_count"      validate:"omitempty,gte=1"`
	SpecialRequests string   `json:"special_requests" validate:"omitempty,max=2000"`
	Amount          *float64 `json:"amount"           validate:"omitempty,gte=0"`
}

// ToModel applies the creation defaults. vendorID and price come from the product.
func (r *CreateBookingRequest) ToModel(userID, vendorID string, price float64, date time.Time) model.Booking {
	now := timezone.Now()

	if r.VendorID != "" {
		vendorID = r.VendorID
	}

	amount := price
	if r.Amount != nil {
		amount = *r.Amount
	}

	eventTime := strings.TrimSpace(r.Time)
	if eventTime == "" {
		eventTime = date.Format(constant.TimeOnlyFormat)
	}

	eventType := strings.TrimSpace(r.EventType)
	if eventType == "" {
		eventType = model.DefaultEventType
	}

	guestCount := model.DefaultGuestCount
	if r.GuestCount != nil {
		guestCount = *r.GuestCount
	}

	return model.Booking{
		ID:              uuid.NewString(),
		UserID:          userID,
		VendorID:        vendorID,
		ProductID:       r.ProductID,
		EventDate:       date,
		EventTime:       eventTime,
		EventType:       eventType,
		GuestCount:      guestCount,
		SpecialRequests: strings.TrimSpace(r.SpecialRequests),
		Amount:          amount,
		Status:          model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  userID,
			ModifiedBy: userID,
		},
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

type ReviewRequest struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Review string `json:"review" validate:"omitempty,max=2000"`
}

type BookingResponse struct {
	ID                 string  `json:"id"`
	UserID             string  `json:"user_id"`
	VendorID           string  `json:"vendor_id"`
	ProductID          string  `json:"product_id"`
	Date               string  `json:"date"`
	Time               string  `json:"time"`
	EventType          string  `json:"event_type"`
	GuestCount         int     `json:"guest_count"`
	SpecialRequests    string  `json:"special_requests"`
	Amount             float64 `json:"amount"`
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellation_reason"`
	Rating             *int    `json:"rating"`
	Review             *string `json:"review"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(m model.Booking) {
	r.ID = m.ID
	r.UserID = m.UserID
	r.VendorID = m.VendorID
	r.ProductID = m.ProductID
	r.Date = m.EventDate.Format(constant.DateOnlyFormat)
	r.Time = m.EventTime
	r.EventType = m.EventType
	r.GuestCount = m.GuestCount
	r.SpecialRequests = m.SpecialRequests
	r.Amount = m.Amount
	r.Status = m.Status
	r.CancellationReason = m.CancellationReason
	r.Rating = m.Rating
	r.Review = m.Review
	r.Metadata.FromModel(m.Metadata)
}

type ProductSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type CustomerSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type VendorSummary struct {
	Name string `json:"name"`
}

// BookingDetailResponse is a booking with its joined product, customer and vendor.
// A nested object is null when the joined row no longer exists.
type BookingDetailResponse struct {
	BookingResponse
	Product  *ProductSummary  `json:"product"`
	Customer *CustomerSummary `json:"customer"`
	Vendor   *VendorSummary   `json:"vendor"`
}

func (r *BookingDetailResponse) FromModel(m model.BookingDetail) {
	r.BookingResponse.FromModel(m.Booking)

	if m.ProductName != nil {
		r.Product = &ProductSummary{ID: m.ProductID, Name: *m.ProductName, Price: deref(m.ProductPrice)}
	}

	if m.CustomerName != nil {
		r.Customer = &CustomerSummary{Name: *m.CustomerName, Email: deref(m.CustomerEmail)}
	}

	if m.VendorName != nil {
		r.Vendor = &VendorSummary{Name: *m.VendorName}
	}
}

func FromDetails(models []model.BookingDetail) []BookingDetailResponse {
	res := make([]BookingDetailResponse, len(models))
	for i, m := range models {
		res[i].FromModel(m)
	}

	return res
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}

	return *v
}
