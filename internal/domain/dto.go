package domain

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for API responses

type CatalogTypeDTO struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	DisplayOrder int              `json:"displayOrder"`
	Kinds        []CatalogKindDTO `json:"kinds,omitempty"`
}

type CatalogKindDTO struct {
	ID             uuid.UUID                 `json:"id"`
	Name           string                    `json:"name"`
	DisplayOrder   int                       `json:"displayOrder"`
	Models         []CatalogModelDTO         `json:"models,omitempty"`
	Methods        []CatalogMethodDTO        `json:"methods,omitempty"`
	PrintPositions []CatalogPrintPositionDTO `json:"printPositions,omitempty"`
}

type CatalogModelDTO struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	BasePrice float64        `json:"basePrice"`
	ImagePath string         `json:"imagePath,omitempty"`
	Tiers     []PriceTierDTO `json:"tiers,omitempty"`
	MethodIDs []uuid.UUID    `json:"methodIds,omitempty"`
}

type PriceTierDTO struct {
	MinQty int     `json:"minQty"`
	MaxQty *int    `json:"maxQty,omitempty"`
	Price  float64 `json:"price"`
}

type CatalogMethodDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
}

type CatalogPrintPositionDTO struct {
	ID           uuid.UUID `json:"id"`
	Label        string    `json:"label"`
	DisplayOrder int       `json:"displayOrder"`
}

type QuoteDTO struct {
	ID           uuid.UUID              `json:"id"`
	TeamID       TeamID                 `json:"teamId"`
	Status       QuoteStatus            `json:"status"`
	Currency     string                 `json:"currency"`
	CustomerName string                 `json:"customerName"`
	CustomerRef  string                 `json:"customerRef,omitempty"`
	DeadlineDate *string                `json:"deadlineDate,omitempty"`
	DeadlineNote string                 `json:"deadlineNote,omitempty"`
	Items        []QuoteItemDTO         `json:"items,omitempty"`
	History      []QuoteStatusChangeDTO `json:"history,omitempty"`
	CreatedAt    string                 `json:"createdAt"` // ISO 8601
	UpdatedAt    string                 `json:"updatedAt"` // ISO 8601
}

type QuoteItemDTO struct {
	ID              uuid.UUID            `json:"id"`
	QuoteID         uuid.UUID            `json:"quoteId"`
	Position        int                  `json:"position"`
	Name            string               `json:"name"`
	Quantity        int                  `json:"quantity"`
	Unit            string               `json:"unit,omitempty"`
	UnitPrice       float64              `json:"unitPrice"`
	LineTotal       float64              `json:"lineTotal"`
	Description     string               `json:"description,omitempty"`
	TypeID          *uuid.UUID           `json:"typeId,omitempty"`
	KindID          *uuid.UUID           `json:"kindId,omitempty"`
	ModelID         *uuid.UUID           `json:"modelId,omitempty"`
	PrintPositionID *uuid.UUID           `json:"printPositionId,omitempty"`
	PrintWidth      *float64             `json:"printWidth,omitempty"`
	PrintHeight     *float64             `json:"printHeight,omitempty"`
	Methods         []MethodSelectionDTO `json:"methods,omitempty"`
	AttachmentID    *uuid.UUID           `json:"attachmentId,omitempty"`
	CreatedAt       string               `json:"createdAt"`
	UpdatedAt       string               `json:"updatedAt"`
}

type MethodSelectionDTO struct {
	MethodID uuid.UUID `json:"methodId"`
	Count    int       `json:"count"`
}

type QuoteStatusChangeDTO struct {
	ID            uuid.UUID    `json:"id"`
	QuoteID       uuid.UUID    `json:"quoteId"`
	FromStatus    *QuoteStatus `json:"fromStatus,omitempty"`
	ToStatus      QuoteStatus  `json:"toStatus"`
	Note          string       `json:"note,omitempty"`
	ChangedByID   string       `json:"changedById,omitempty"`
	ChangedByName string       `json:"changedByName,omitempty"`
	ChangedAt     string       `json:"changedAt"` // ISO 8601
}

// DashboardMetricsDTO summarizes quote activity for the console landing
// page: current counts per status, transition volume over the last 30 days,
// and the caller's recent status changes.
type DashboardMetricsDTO struct {
	TotalQuotes           int64                  `json:"totalQuotes"`
	QuotesByStatus        map[QuoteStatus]int64  `json:"quotesByStatus"`
	TransitionsLast30Days map[QuoteStatus]int64  `json:"transitionsLast30Days"`
	RecentActivity        []QuoteStatusChangeDTO `json:"recentActivity"`
}

// QuoteTotalsDTO holds the aggregation cascade for a quote: subtotal, then
// discount, then tax, then grand total.
type QuoteTotalsDTO struct {
	Subtotal        float64 `json:"subtotal"`
	DiscountPercent float64 `json:"discountPercent"`
	DiscountAmount  float64 `json:"discountAmount"`
	TaxPercent      float64 `json:"taxPercent"`
	TaxAmount       float64 `json:"taxAmount"`
	Total           float64 `json:"total"`
}

type AttachmentDTO struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	CreatedAt   string    `json:"createdAt"`
}

// AuthUserDTO describes the authenticated operator
type AuthUserDTO struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	TeamID   string   `json:"teamId,omitempty"`
	Initials string   `json:"initials"`
	IsAdmin  bool     `json:"isAdmin"`
}

// PaginatedResponse wraps list results with paging metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// Request DTOs

type CreateQuoteRequest struct {
	CustomerName string     `json:"customerName" validate:"required,max=200"`
	CustomerRef  string     `json:"customerRef" validate:"max=200"`
	Currency     string     `json:"currency" validate:"omitempty,len=3"`
	DeadlineDate *time.Time `json:"deadlineDate"`
	DeadlineNote string     `json:"deadlineNote" validate:"max=500"`
	TeamID       TeamID     `json:"teamId" validate:"required"`
}

type UpdateQuoteRequest struct {
	CustomerName string     `json:"customerName" validate:"required,max=200"`
	CustomerRef  string     `json:"customerRef" validate:"max=200"`
	Currency     string     `json:"currency" validate:"omitempty,len=3"`
	DeadlineDate *time.Time `json:"deadlineDate"`
	DeadlineNote string     `json:"deadlineNote" validate:"max=500"`
}

// MethodSelection is one decoration method choice on an item draft. Count
// defaults to 1 when omitted.
type MethodSelection struct {
	MethodID uuid.UUID `json:"methodId" validate:"required"`
	Count    int       `json:"count" validate:"gte=0"`
}

// QuoteItemDraft carries the writable fields of a quote item. When Kind,
// Model and Quantity are set the unit price is resolved from the catalog;
// otherwise ManualPrice is used.
type QuoteItemDraft struct {
	Name            string            `json:"name" validate:"required,max=200"`
	Quantity        int               `json:"quantity" validate:"required,gte=1"`
	Unit            string            `json:"unit" validate:"max=50"`
	ManualPrice     *float64          `json:"manualPrice"`
	Description     string            `json:"description"`
	TypeID          *uuid.UUID        `json:"typeId"`
	KindID          *uuid.UUID        `json:"kindId"`
	ModelID         *uuid.UUID        `json:"modelId"`
	PrintPositionID *uuid.UUID        `json:"printPositionId"`
	PrintWidth      *float64          `json:"printWidth"`
	PrintHeight     *float64          `json:"printHeight"`
	Methods         []MethodSelection `json:"methods" validate:"dive"`
	AttachmentID    *uuid.UUID        `json:"attachmentId"`
}

type ReorderItemsRequest struct {
	ItemIDs []uuid.UUID `json:"itemIds" validate:"required,min=1"`
}

type SetQuoteStatusRequest struct {
	Status QuoteStatus `json:"status" validate:"required"`
	Note   string      `json:"note"`
}
