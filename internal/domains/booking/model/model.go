package model

import (
	"eventhub/shared/model"
	"fmt"
	"slices"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                 = "id"
	FieldUserID             = "user_id"
	FieldVendorID           = "vendor_id"
	FieldProductID          = "product_id"
	FieldStatus             = "status"
	FieldCancellationReason = "cancellation_reason"
	FieldRating             = "rating"
	FieldReview             = "review"
	FieldEventDate          = "event_date"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	DefaultEventType  = "Other"
	DefaultGuestCount = 1
)

var Statuses = []string{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

var strictTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// Booking joins a customer, a vendor and a product. Amount is a snapshot
// taken at creation and never recalculated.
type Booking struct {
	ID                 string    `db:"id"`
	UserID             string    `db:"user_id"`
	VendorID           string    `db:"vendor_id"`
	ProductID          string    `db:"product_id"`
	EventDate          time.Time `db:"event_date"`
	EventTime          string    `db:"event_time"`
	EventType          string    `db:"event_type"`
	GuestCount         int       `db:"guest_count"`
	SpecialRequests    string    `db:"special_requests"`
	Amount             float64   `db:"amount"`
	Status             string    `db:"status"`
	CancellationReason *string   `db:"cancellation_reason"`
	Rating             *int      `db:"rating"`
	Review             *string   `db:"review"`
	model.Metadata
}

// BookingDetail is a booking with the names of the joined records. The joined
// columns are NULL once the product is gone.
type BookingDetail struct {
	Booking
	ProductName     *string  `column:"name"      db:"product_name"      table:"products"`
	ProductPrice    *float64 `column:"price"     db:"product_price"     table:"products"`
	ProductVendorID *string  `column:"vendor_id" db:"product_vendor_id" table:"products"`
	CustomerName    *string  `column:"name"      db:"customer_name"     table:"users"`
	CustomerEmail   *string  `column:"email"     db:"customer_email"    table:"users"`
	VendorName      *string  `column:"name"      db:"vendor_name"       table:"vendors"`
}

func (BookingDetail) GetJoinQuery() string {
	return fmt.Sprintf(
		"LEFT JOIN products ON products.id = %[1]s.%[2]s LEFT JOIN users ON users.id = %[1]s.%[3]s LEFT JOIN vendors ON vendors.id = %[1]s.%[4]s",
		TableName, FieldProductID, FieldUserID, FieldVendorID,
	)
}

// CanTransition reports whether status may move from one value to another.
// Lenient mode accepts any known target; strict mode follows the lifecycle
// pending -> confirmed -> completed with cancellation from the first two.
func CanTransition(from, to string, strict bool) bool {
	if !slices.Contains(Statuses, to) {
		return false
	}

	if !strict {
		return true
	}

	return slices.Contains(strictTransitions[from], to)
}
