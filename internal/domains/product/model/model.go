package model

import (
	"eventhub/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "products"
	EntityName = "product"

	FieldID          = "id"
	FieldVendorID    = "vendor_id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldCategoryID  = "category_id"
	FieldCategory    = "category"
	FieldImages      = "images"
	FieldFeatures    = "features"
	FieldIsAvailable = "is_available"
	FieldCreatedAt   = "created_at"

	FieldVendorName = "vendor_name"
)

const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
	SortRating    = "rating"
)

// Product is an offering of one vendor. Category holds the category name at
// write time while CategoryID keeps the reference.
type Product struct {
	ID          string         `db:"id"`
	VendorID    string         `db:"vendor_id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Price       float64        `db:"price"`
	CategoryID  *string        `db:"category_id"`
	Category    string         `db:"category"`
	Images      Images         `db:"images"`
	Features    pq.StringArray `db:"features"`
	IsAvailable bool           `db:"is_available"`
	model.Metadata
}

type Image struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

type Images = model.JSONList[Image]

// ProductWithVendor is a listing row carrying the owning vendor's name.
type ProductWithVendor struct {
	Product
	VendorName string `db:"vendor_name"`
}

func (p Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, image := range p.Images {
		urls = append(urls, image.URL)
	}

	return urls
}
