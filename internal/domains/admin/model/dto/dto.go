package dto

import (
	bookingDto "eventhub/internal/domains/booking/model/dto"
	"eventhub/shared/constant"
	"fmt"
	"time"
)

type BookingStatusCount struct {
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

type StatsResponse struct {
	UserCount     int                `json:"user_count"`
	VendorCount   int                `json:"vendor_count"`
	BookingCount  int                `json:"booking_count"`
	BookingStatus BookingStatusCount `json:"booking_status"`
}

// ExportFile is a generated spreadsheet ready to be streamed as an attachment.
type ExportFile struct {
	Name string
	Data []byte
}

func ExportName(at time.Time) string {
	return fmt.Sprintf("bookings_%s.xlsx", at.Format(constant.DateOnlyFormat))
}

// ExportHeader is the first row of the bookings export.
var ExportHeader = []any{
	"ID", "Date", "Time", "Event type", "Guests", "Amount", "Status",
	"Product", "Customer", "Customer email", "Vendor", "Created at",
}

// ExportRow flattens one booking into the export columns.
func ExportRow(b bookingDto.BookingDetailResponse) []any {
	var product, customer, email, vendor string

	if b.Product != nil {
		product = b.Product.Name
	}

	if b.Customer != nil {
		customer = b.Customer.Name
		email = b.Customer.Email
	}

	if b.Vendor != nil {
		vendor = b.Vendor.Name
	}

	return []any{
		b.ID, b.Date, b.Time, b.EventType, b.GuestCount, b.Amount, b.Status,
		product, customer, email, vendor, b.CreatedAt,
	}
}
