package dto

import (
	"encoding/json"
	"eventhub/internal/domains/product/model"
	"eventhub/shared/constant"
	gDto "eventhub/shared/dto"
	gModel "eventhub/shared/model"
	"eventhub/shared/timezone"
	"fmt"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultPage  = 1
	DefaultLimit = 9

	categoryAll = "all"

	QueryVendorID = "vendorId"
	QueryCategory = "category"
	QuerySearch   = "search"
	QueryMinPrice = "minPrice"
	QueryMaxPrice = "maxPrice"
	QuerySort     = "sort"
)

// CreateProductRequest is decoded from a multipart form by the handler.
type CreateProductRequest struct {
	Name        string                  `json:"name"         validate:"required,max=200"`
	Description string                  `json:"description"  validate:"required,max=2000"`
	Price       *float64                `json:"price"        validate:"required,gte=0"`
	CategoryID  string                  `json:"category"     validate:"required"`
	Features    []string                `json:"features"`
	IsAvailable bool                    `json:"is_available"`
	Images      []*multipart.FileHeader `json:"-"            validate:"max=5"`
}

func (r *CreateProductRequest) ToModel(vendorID, categoryName, user string, images []model.Image) model.Product {
	now := timezone.Now()
	categoryID := r.CategoryID

	return model.Product{
		ID:          uuid.NewString(),
		VendorID:    vendorID,
		Name:        strings.TrimSpace(r.Name),
		Description: strings.TrimSpace(r.Description),
		Price:       *r.Price,
		CategoryID:  &categoryID,
		Category:    categoryName,
		Images:      images,
		Features:    CleanFeatures(r.Features),
		IsAvailable: r.IsAvailable,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateProductRequest is a partial update. A nil ExistingImages keeps every
// stored image; a non-nil one keeps only the listed URLs.
type UpdateProductRequest struct {
	Name           string                  `json:"name"            validate:"omitempty,max=200"`
	Description    string                  `json:"description"     validate:"omitempty,max=2000"`
	Price          *float64                `json:"price"           validate:"omitempty,gte=0"`
	CategoryID     string                  `json:"category"`
	Features       []string                `json:"features"`
	IsAvailable    *bool                   `json:"is_available"`
	ExistingImages []string                `json:"existing_images"`
	Images         []*multipart.FileHeader `json:"-"               validate:"max=5"`
}

type ProductResponse struct {
	ID          string        `json:"id"`
	VendorID    string        `json:"vendor_id"`
	VendorName  string        `json:"vendor_name,omitempty"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	CategoryID  string        `json:"category_id"`
	Category    string        `json:"category"`
	Images      []model.Image `json:"images"`
	Features    []string      `json:"features"`
	IsAvailable bool          `json:"is_available"`
	gDto.Metadata
}

func (r *ProductResponse) FromModel(m model.Product) {
	r.ID = m.ID
	r.VendorID = m.VendorID
	r.Name = m.Name
	r.Description = m.Description
	r.Price = m.Price
	r.Category = m.Category
	r.Images = m.Images
	r.Features = m.Features
	r.IsAvailable = m.IsAvailable

	if m.CategoryID != nil {
		r.CategoryID = *m.CategoryID
	}

	if r.Images == nil {
		r.Images = []model.Image{}
	}

	if r.Features == nil {
		r.Features = []string{}
	}

	r.Metadata.FromModel(m.Metadata)
}

func FromModels(models []model.Product) []ProductResponse {
	res := make([]ProductResponse, len(models))
	for i, m := range models {
		res[i].FromModel(m)
	}

	return res
}

// ListProductsRequest holds the catalog query. Unknown sort keys fall back to rating.
type ListProductsRequest struct {
	VendorID string
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
	Page     int
	Limit    int
}

// FromQuery reads the catalog query string. Malformed prices are reported by
// name so the handler can reject them.
func (r *ListProductsRequest) FromQuery(query url.Values) (invalid string) {
	r.VendorID = strings.TrimSpace(query.Get(QueryVendorID))
	r.Search = strings.TrimSpace(query.Get(QuerySearch))
	r.Sort = query.Get(QuerySort)

	if category := strings.TrimSpace(query.Get(QueryCategory)); !strings.EqualFold(category, categoryAll) {
		r.Category = category
	}

	for name, target := range map[string]**float64{QueryMinPrice: &r.MinPrice, QueryMaxPrice: &r.MaxPrice} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}

		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			invalid = name

			continue
		}

		*target = &value
	}

	paging := gDto.QueryParams{}
	paging.FromQuery(query)
	paging.WithDefaults(DefaultPage, DefaultLimit)

	r.Page, r.Limit = paging.Page, paging.Limit

	r.Normalize()

	return invalid
}

func (r *ListProductsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = DefaultPage
	}

	if r.Limit < 1 {
		r.Limit = DefaultLimit
	}

	r.Limit = min(r.Limit, constant.MaxValueLimit)

	switch r.Sort {
	case model.SortPriceAsc, model.SortPriceDesc, model.SortNewest, model.SortRating:
	default:
		r.Sort = model.SortRating
	}
}

func (r *ListProductsRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

type ProductPage struct {
	Products    []ProductResponse `json:"products"`
	Total       int               `json:"total"`
	TotalPages  int               `json:"total_pages"`
	CurrentPage int               `json:"current_page"`
	HasMore     bool              `json:"has_more"`
}

// EmptyPage is returned when the vendor filter matches no vendor.
func EmptyPage() ProductPage {
	return ProductPage{Products: []ProductResponse{}, CurrentPage: DefaultPage}
}

func (p *ProductPage) FromModels(rows []model.ProductWithVendor, total int, req ListProductsRequest, totalPages int) {
	p.Products = make([]ProductResponse, len(rows))
	for i, row := range rows {
		p.Products[i].FromModel(row.Product)
		p.Products[i].VendorName = row.VendorName
	}

	p.Total = total
	p.TotalPages = totalPages
	p.CurrentPage = req.Page
	p.HasMore = req.Page < totalPages
}

// ParseFeatures accepts a JSON array or a comma separated list.
func ParseFeatures(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var features []string
		if err := json.Unmarshal([]byte(raw), &features); err == nil {
			return CleanFeatures(features)
		}
	}

	return CleanFeatures(strings.Split(raw, ","))
}

// ParseExistingImages reads the list of images to keep, given either as URLs
// or as image objects. An absent field yields nil so every stored image is kept.
func ParseExistingImages(raw string, present bool) ([]string, error) {
	if !present {
		return nil, nil
	}

	urls := []string{}
	if strings.TrimSpace(raw) == "" {
		return urls, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("invalid existing_images: %w", err)
	}

	for _, item := range items {
		var url string
		if err := json.Unmarshal(item, &url); err == nil {
			urls = append(urls, url)

			continue
		}

		var image model.Image
		if err := json.Unmarshal(item, &image); err != nil {
			return nil, fmt.Errorf("invalid existing_images: %w", err)
		}

		urls = append(urls, image.URL)
	}

	return urls, nil
}

// CleanFeatures trims every feature and drops the empty ones.
func CleanFeatures(features []string) []string {
	cleaned := make([]string, 0, len(features))
	for _, feature := range features {
		if feature = strings.TrimSpace(feature); feature != "" {
			cleaned = append(cleaned, feature)
		}
	}

	return cleaned
}
