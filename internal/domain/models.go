package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TeamID identifies the club team that owns a row. All catalog and quote
// data is scoped to one team; queries are filtered by the team in the
// authenticated user's context.
type TeamID string

// CatalogType is the top level of the product catalog. It groups kinds
// (e.g. "Apparel", "Print material", "Equipment").
type CatalogType struct {
	BaseModel
	TeamID       TeamID        `gorm:"type:varchar(50);not null;index;column:team_id"`
	Name         string        `gorm:"type:varchar(200);not null"`
	DisplayOrder int           `gorm:"not null;default:0;column:display_order"`
	Kinds        []CatalogKind `gorm:"foreignKey:TypeID;constraint:OnDelete:CASCADE"`
}

// CatalogKind is the second catalog level. A kind owns the models that can
// be priced, the decoration methods that can be applied to them, and the
// print positions used as descriptive metadata.
type CatalogKind struct {
	BaseModel
	TypeID         uuid.UUID              `gorm:"type:uuid;not null;index;column:type_id"`
	Type           *CatalogType           `gorm:"foreignKey:TypeID"`
	Name           string                 `gorm:"type:varchar(200);not null"`
	DisplayOrder   int                    `gorm:"not null;default:0;column:display_order"`
	Models         []CatalogModel         `gorm:"foreignKey:KindID;constraint:OnDelete:CASCADE"`
	Methods        []CatalogMethod        `gorm:"foreignKey:KindID;constraint:OnDelete:CASCADE"`
	PrintPositions []CatalogPrintPosition `gorm:"foreignKey:KindID;constraint:OnDelete:CASCADE"`
}

// CatalogModel is the priced unit of the catalog. BasePrice applies when no
// quantity tier matches; Tiers carry volume pricing.
type CatalogModel struct {
	BaseModel
	KindID    uuid.UUID    `gorm:"type:uuid;not null;index;column:kind_id"`
	Kind      *CatalogKind `gorm:"foreignKey:KindID"`
	Name      string       `gorm:"type:varchar(200);not null"`
	BasePrice float64      `gorm:"type:decimal(15,2);not null;default:0;column:base_price"`
	ImagePath string       `gorm:"type:varchar(500);column:image_path"`
	Tiers     []PriceTier  `gorm:"foreignKey:ModelID;constraint:OnDelete:CASCADE"`
}

// PriceTier maps a quantity range [MinQty, MaxQty] on a model to a unit
// price. MaxQty nil means unbounded above. Tiers are stored sorted
// ascending by MinQty; the producer is responsible for non-overlapping,
// gap-free ranges.
type PriceTier struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ModelID uuid.UUID `gorm:"type:uuid;not null;index;column:model_id"`
	MinQty  int       `gorm:"not null;column:min_qty"`
	MaxQty  *int      `gorm:"column:max_qty"`
	Price   float64   `gorm:"type:decimal(15,2);not null"`
}

// Contains reports whether qty falls inside the tier's range. MaxQty is
// inclusive when present.
func (t *PriceTier) Contains(qty int) bool {
	if qty < t.MinQty {
		return false
	}
	return t.MaxQty == nil || qty <= *t.MaxQty
}

// CatalogMethod is an optional priced decoration applied per unit count
// (e.g. screen print, embroidery).
type CatalogMethod struct {
	BaseModel
	KindID uuid.UUID    `gorm:"type:uuid;not null;index;column:kind_id"`
	Kind   *CatalogKind `gorm:"foreignKey:KindID"`
	Name   string       `gorm:"type:varchar(200);not null"`
	Price  float64      `gorm:"type:decimal(15,2);not null;default:0"`
}

// CatalogModelMethod associates a decoration method with a model it may be
// applied to. Selecting a method outside this association is a caller error.
type CatalogModelMethod struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ModelID  uuid.UUID `gorm:"type:uuid;not null;index;column:model_id"`
	MethodID uuid.UUID `gorm:"type:uuid;not null;index;column:method_id"`
}

// TableName overrides the default table name
func (CatalogModelMethod) TableName() string {
	return "catalog_model_methods"
}

// CatalogPrintPosition is descriptive metadata on a quote item (e.g.
// "chest left", "back"). It carries no price.
type CatalogPrintPosition struct {
	BaseModel
	KindID       uuid.UUID    `gorm:"type:uuid;not null;index;column:kind_id"`
	Kind         *CatalogKind `gorm:"foreignKey:KindID"`
	Label        string       `gorm:"type:varchar(200);not null"`
	DisplayOrder int          `gorm:"not null;default:0;column:display_order"`
}

// QuoteStatus represents the status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft      QuoteStatus = "draft"
	QuoteStatusSent       QuoteStatus = "sent"
	QuoteStatusApproved   QuoteStatus = "approved"
	QuoteStatusRejected   QuoteStatus = "rejected"
	QuoteStatusInProgress QuoteStatus = "in_progress"
	QuoteStatusCompleted  QuoteStatus = "completed"
)

// IsValid checks if the QuoteStatus is a valid enum value
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusApproved,
		QuoteStatusRejected, QuoteStatusInProgress, QuoteStatusCompleted:
		return true
	}
	return false
}

// Quote represents a customer-facing estimate composed of line items, with
// a status and an append-only status history. Discount and tax percentages
// are aggregation parameters supplied by the caller at computation time and
// are not persisted on the quote.
type Quote struct {
	BaseModel
	TeamID       TeamID               `gorm:"type:varchar(50);not null;index;column:team_id"`
	Status       QuoteStatus          `gorm:"type:varchar(50);not null;default:'draft';index"`
	Currency     string               `gorm:"type:varchar(3);not null;default:'EUR'"`
	CustomerName string               `gorm:"type:varchar(200);not null;column:customer_name"`
	CustomerRef  string               `gorm:"type:varchar(200);column:customer_ref"`
	DeadlineDate *time.Time           `gorm:"type:date;column:deadline_date"`
	DeadlineNote string               `gorm:"type:varchar(500);column:deadline_note"`
	Items        []QuoteItem          `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	History      []QuoteStatusHistory `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
}

// QuoteItem is one priced line within a quote, either manually priced or
// resolved from a catalog selection. LineTotal is always Quantity times
// UnitPrice and is recomputed whenever either operand changes.
type QuoteItem struct {
	BaseModel
	QuoteID         uuid.UUID         `gorm:"type:uuid;not null;index;column:quote_id"`
	Quote           *Quote            `gorm:"foreignKey:QuoteID"`
	Position        int               `gorm:"not null"`
	Name            string            `gorm:"type:varchar(200);not null"`
	Quantity        int               `gorm:"not null;default:1"`
	Unit            string            `gorm:"type:varchar(50)"`
	UnitPrice       float64           `gorm:"type:decimal(15,2);not null;column:unit_price"`
	LineTotal       float64           `gorm:"type:decimal(15,2);not null;column:line_total"`
	Description     string            `gorm:"type:text"`
	TypeID          *uuid.UUID        `gorm:"type:uuid;column:type_id"`
	KindID          *uuid.UUID        `gorm:"type:uuid;column:kind_id"`
	ModelID         *uuid.UUID        `gorm:"type:uuid;column:model_id"`
	PrintPositionID *uuid.UUID        `gorm:"type:uuid;column:print_position_id"`
	PrintWidth      *float64          `gorm:"type:decimal(10,2);column:print_width"`
	PrintHeight     *float64          `gorm:"type:decimal(10,2);column:print_height"`
	Methods         []QuoteItemMethod `gorm:"foreignKey:QuoteItemID;constraint:OnDelete:CASCADE"`
	AttachmentID    *uuid.UUID        `gorm:"type:uuid;column:attachment_id"`
	Attachment      *Attachment       `gorm:"foreignKey:AttachmentID"`
}

// HasCatalogSelection reports whether the item is priced from the catalog
// rather than manually.
func (i *QuoteItem) HasCatalogSelection() bool {
	return i.KindID != nil && i.ModelID != nil
}

// QuoteItemMethod is one decoration method selection on a quote item.
// Stored as related rows rather than a JSON blob so the price resolver can
// validate selections against the catalog.
type QuoteItemMethod struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	QuoteItemID uuid.UUID `gorm:"type:uuid;not null;index;column:quote_item_id"`
	MethodID    uuid.UUID `gorm:"type:uuid;not null;column:method_id"`
	Count       int       `gorm:"not null;default:1"`
	SortOrder   int       `gorm:"not null;default:0;column:sort_order"`
}

// QuoteStatusHistory tracks status changes for audit purposes. Rows are
// created exactly once when a status change is committed and never mutated.
type QuoteStatusHistory struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	QuoteID       uuid.UUID    `gorm:"type:uuid;not null;index;column:quote_id"`
	Quote         *Quote       `gorm:"foreignKey:QuoteID"`
	FromStatus    *QuoteStatus `gorm:"type:varchar(50);column:from_status"`
	ToStatus      QuoteStatus  `gorm:"type:varchar(50);not null;column:to_status"`
	Note          string       `gorm:"type:text"`
	ChangedByID   string       `gorm:"type:varchar(100);column:changed_by_id"`
	ChangedByName string       `gorm:"type:varchar(200);column:changed_by_name"`
	ChangedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;column:changed_at"`
}

// TableName overrides the default table name to match the migration
func (QuoteStatusHistory) TableName() string {
	return "quote_status_history"
}

// Attachment represents an uploaded file referenced by a quote item
type Attachment struct {
	BaseModel
	TeamID      TeamID `gorm:"type:varchar(50);not null;index;column:team_id"`
	Filename    string `gorm:"type:varchar(255);not null"`
	ContentType string `gorm:"type:varchar(100);not null;column:content_type"`
	Size        int64  `gorm:"not null"`
	StoragePath string `gorm:"type:varchar(500);not null;unique;column:storage_path"`
}

// UserRoleType labels what an operator may do in the console
type UserRoleType string

const (
	RoleAdmin   UserRoleType = "admin"
	RoleManager UserRoleType = "manager"
	RoleSales   UserRoleType = "sales"
	RoleViewer  UserRoleType = "viewer"
)

// User represents an operator of the console. Identity is only used to
// label who changed what; it plays no part in pricing.
type User struct {
	ID          string         `gorm:"type:varchar(100);primaryKey" json:"id"`
	Email       string         `gorm:"type:varchar(255);not null;unique" json:"email"`
	DisplayName string         `gorm:"type:varchar(200);not null;column:name" json:"displayName"`
	Roles       pq.StringArray `gorm:"type:text[];not null" json:"roles"`
	TeamID      TeamID         `gorm:"type:varchar(50);column:team_id" json:"teamId,omitempty"`
	IsActive    bool           `gorm:"not null;default:true;column:is_active" json:"isActive"`
	LastLoginAt *time.Time     `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}
