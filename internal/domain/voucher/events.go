package voucher

import (
	"time"

	"github.com/openbooks/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoucherCreatedEvent is raised when a new voucher is created
type VoucherCreatedEvent struct {
	shared.BaseDomainEvent
	VoucherID     uuid.UUID       `json:"voucher_id"`
	VoucherNumber string          `json:"voucher_number"`
	VoucherType   Type            `json:"voucher_type"`
	Amount        decimal.Decimal `json:"amount"`
	VoucherDate   time.Time       `json:"voucher_date"`
}

// EventType returns the event type name
func (e *VoucherCreatedEvent) EventType() string {
	return "VoucherCreated"
}

// NewVoucherCreatedEvent creates a new VoucherCreatedEvent
func NewVoucherCreatedEvent(v *Voucher) *VoucherCreatedEvent {
	return &VoucherCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("VoucherCreated", "Voucher", v.ID),
		VoucherID:       v.ID,
		VoucherNumber:   v.VoucherNumber,
		VoucherType:     v.Type,
		Amount:          v.Amount,
		VoucherDate:     v.VoucherDate,
	}
}

// VoucherApprovedEvent is raised when a voucher is approved
type VoucherApprovedEvent struct {
	shared.BaseDomainEvent
	VoucherID     uuid.UUID       `json:"voucher_id"`
	VoucherNumber string          `json:"voucher_number"`
	Amount        decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *VoucherApprovedEvent) EventType() string {
	return "VoucherApproved"
}

// NewVoucherApprovedEvent creates a new VoucherApprovedEvent
func NewVoucherApprovedEvent(v *Voucher) *VoucherApprovedEvent {
	return &VoucherApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("VoucherApproved", "Voucher", v.ID),
		VoucherID:       v.ID,
		VoucherNumber:   v.VoucherNumber,
		Amount:          v.Amount,
	}
}

// VoucherPostedEvent is raised when the voucher's paired transaction posts
type VoucherPostedEvent struct {
	shared.BaseDomainEvent
	VoucherID     uuid.UUID       `json:"voucher_id"`
	VoucherNumber string          `json:"voucher_number"`
	VoucherType   Type            `json:"voucher_type"`
	Amount        decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *VoucherPostedEvent) EventType() string {
	return "VoucherPosted"
}

// NewVoucherPostedEvent creates a new VoucherPostedEvent
func NewVoucherPostedEvent(v *Voucher) *VoucherPostedEvent {
	return &VoucherPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("VoucherPosted", "Voucher", v.ID),
		VoucherID:       v.ID,
		VoucherNumber:   v.VoucherNumber,
		VoucherType:     v.Type,
		Amount:          v.Amount,
	}
}

// VoucherCancelledEvent is raised when a voucher is cancelled
type VoucherCancelledEvent struct {
	shared.BaseDomainEvent
	VoucherID     uuid.UUID `json:"voucher_id"`
	VoucherNumber string    `json:"voucher_number"`
	Reason        string    `json:"reason,omitempty"`
}

// EventType returns the event type name
func (e *VoucherCancelledEvent) EventType() string {
	return "VoucherCancelled"
}

// NewVoucherCancelledEvent creates a new VoucherCancelledEvent
func NewVoucherCancelledEvent(v *Voucher) *VoucherCancelledEvent {
	return &VoucherCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("VoucherCancelled", "Voucher", v.ID),
		VoucherID:       v.ID,
		VoucherNumber:   v.VoucherNumber,
		Reason:          v.CancelReason,
	}
}

// VoucherTypeMigratedEvent is raised by the explicit, audited type-migration
// operation. Silent remapping of voucher types is not supported anywhere in
// the engine.
type VoucherTypeMigratedEvent struct {
	shared.BaseDomainEvent
	VoucherID     uuid.UUID `json:"voucher_id"`
	VoucherNumber string    `json:"voucher_number"`
	FromType      Type      `json:"from_type"`
	ToType        Type      `json:"to_type"`
	Reason        string    `json:"reason"`
}

// EventType returns the event type name
func (e *VoucherTypeMigratedEvent) EventType() string {
	return "VoucherTypeMigrated"
}

// NewVoucherTypeMigratedEvent creates a new VoucherTypeMigratedEvent
func NewVoucherTypeMigratedEvent(v *Voucher, from, to Type, reason string) *VoucherTypeMigratedEvent {
	return &VoucherTypeMigratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("VoucherTypeMigrated", "Voucher", v.ID),
		VoucherID:       v.ID,
		VoucherNumber:   v.VoucherNumber,
		FromType:        from,
		ToType:          to,
		Reason:          reason,
	}
}
