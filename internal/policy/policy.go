// Package policy is the single allow/deny gate for mutations. Services call
// Authorize with the caller and the facts of the target resource.
package policy

//go:generate go run go.uber.org/mock/mockgen -source=./policy.go -destination=./mocks/policy_mock.go -package=mocks

import (
	"context"
	"eventhub/infras/otel"
	bookingModel "eventhub/internal/domains/booking/model"
	vendorModel "eventhub/internal/domains/vendors/model"
	vendorRepo "eventhub/internal/domains/vendors/repository"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	gDto "eventhub/shared/dto"
	"eventhub/shared/failure"
	"fmt"
	"slices"
	"sync"
)

type Action string

const (
	ActionVendorUpdate  Action = "vendor.update"
	ActionVendorImage   Action = "vendor.image"
	ActionVendorDelete  Action = "vendor.delete"
	ActionProductCreate Action = "product.create"
	ActionProductUpdate Action = "product.update"
	ActionProductDelete Action = "product.delete"
	ActionBookingStatus Action = "booking.status"
	ActionBookingReview Action = "booking.review"
	ActionAdmin         Action = "admin"
)

const (
	MessageNotAuthenticated      = "Not authenticated"
	MessageNotAuthorized         = "Not authorized"
	MessageVendorNotFound        = "Vendor not found"
	MessageVendorProfileNotFound = "Vendor profile not found"
	MessageBookingNotAuthorized  = "Not authorized to update this booking"
	MessageBookingStatusDenied   = "Not authorized to update booking status"
	MessageAdminRequired         = "Access denied. Admin privileges required."
)

var (
	vendorTargets   = []string{bookingModel.StatusConfirmed, bookingModel.StatusCancelled, bookingModel.StatusCompleted}
	customerTargets = []string{bookingModel.StatusCancelled}
)

// Resource carries the ownership facts of the target. Only the fields the
// action needs are read.
type Resource struct {
	OwnerUserID     string
	VendorID        string
	ProductVendorID string
	TargetStatus    string
}

type Policy interface {
	Authorize(ctx context.Context, c caller.Caller, action Action, res Resource) error
	VendorOf(ctx context.Context, userID string) (vendorModel.Vendor, error)
}

type policyImpl struct {
	vendors vendorRepo.Vendor
	otel    otel.Otel
}

func New(vendors vendorRepo.Vendor, otel otel.Otel) Policy {
	return &policyImpl{
		vendors: vendors,
		otel:    otel,
	}
}

type memoKey struct{}

type memo struct {
	mu      sync.Mutex
	vendors map[string]vendorModel.Vendor
}

// WithMemo installs a per-request cache for VendorOf lookups.
func WithMemo(ctx context.Context) context.Context {
	return context.WithValue(ctx, memoKey{}, &memo{vendors: map[string]vendorModel.Vendor{}})
}

// VendorOf returns the vendor profile owned by userID. A zero ID means the
// user has no profile.
func (p *policyImpl) VendorOf(ctx context.Context, userID string) (vendor vendorModel.Vendor, err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelPolicyScopeName, constant.OtelPolicyScopeName+".VendorOf")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	m, _ := ctx.Value(memoKey{}).(*memo)
	if m != nil {
		m.mu.Lock()
		cached, ok := m.vendors[userID]
		m.mu.Unlock()

		if ok {
			return cached, nil
		}
	}

	vendor, err = p.vendors.Get(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    vendorModel.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    vendorModel.TableName,
			},
		},
	})
	if err != nil {
		return vendor, fmt.Errorf("failed to resolve vendor of user: %w", err)
	}

	if m != nil {
		m.mu.Lock()
		m.vendors[userID] = vendor
		m.mu.Unlock()
	}

	return vendor, nil
}

func (p *policyImpl) Authorize(ctx context.Context, c caller.Caller, action Action, res Resource) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelPolicyScopeName, constant.OtelPolicyScopeName+".Authorize")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("policy.action", string(action))

	if !c.IsAuthenticated() {
		return failure.Unauthorized(MessageNotAuthenticated) //nolint:wrapcheck
	}

	switch action {
	case ActionAdmin, ActionVendorDelete:
		if !c.IsAdmin() {
			return failure.Forbidden(MessageAdminRequired) //nolint:wrapcheck
		}

		return nil
	case ActionVendorUpdate, ActionVendorImage:
		return ownerOnly(c, res.OwnerUserID)
	case ActionProductCreate:
		vendor, err := p.VendorOf(ctx, c.UserID)
		if err != nil {
			return err
		}

		if vendor.ID == "" {
			return failure.NotFound(MessageVendorNotFound) //nolint:wrapcheck
		}

		return nil
	case ActionProductUpdate, ActionProductDelete:
		vendor, err := p.VendorOf(ctx, c.UserID)
		if err != nil {
			return err
		}

		if vendor.ID == "" {
			return failure.NotFound(MessageVendorProfileNotFound) //nolint:wrapcheck
		}

		if vendor.ID != res.VendorID {
			return failure.Forbidden(MessageNotAuthorized) //nolint:wrapcheck
		}

		return nil
	case ActionBookingStatus:
		return p.authorizeBookingStatus(ctx, c, res)
	case ActionBookingReview:
		return ownerOnly(c, res.OwnerUserID)
	default:
		return failure.ForbiddenError
	}
}

func (p *policyImpl) authorizeBookingStatus(ctx context.Context, c caller.Caller, res Resource) error {
	switch c.Role {
	case constant.RoleAdmin:
		return nil
	case constant.RoleVendor:
		vendor, err := p.VendorOf(ctx, c.UserID)
		if err != nil {
			return err
		}

		if vendor.ID == "" {
			return failure.Forbidden(MessageVendorProfileNotFound) //nolint:wrapcheck
		}

		if vendor.ID != res.VendorID && vendor.ID != res.ProductVendorID {
			return failure.Forbidden(MessageBookingNotAuthorized) //nolint:wrapcheck
		}

		if !slices.Contains(vendorTargets, res.TargetStatus) {
			return failure.Forbidden(MessageBookingStatusDenied) //nolint:wrapcheck
		}

		return nil
	case constant.RoleCustomer:
		if c.UserID != res.OwnerUserID {
			return failure.Forbidden(MessageBookingNotAuthorized) //nolint:wrapcheck
		}

		if !slices.Contains(customerTargets, res.TargetStatus) {
			return failure.Forbidden(MessageBookingStatusDenied) //nolint:wrapcheck
		}

		return nil
	default:
		return failure.Forbidden(MessageBookingStatusDenied) //nolint:wrapcheck
	}
}

func ownerOnly(c caller.Caller, ownerUserID string) error {
	if ownerUserID == "" || c.UserID != ownerUserID {
		return failure.Forbidden(MessageNotAuthorized) //nolint:wrapcheck
	}

	return nil
}
