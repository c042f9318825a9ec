// Package mapper converts persisted entities to API DTOs.
package mapper

import (
	"time"

	"github.com/pitchside/quote-api/internal/domain"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ToQuoteDTO converts a quote entity with its preloaded relations
func ToQuoteDTO(q *domain.Quote) domain.QuoteDTO {
	dto := domain.QuoteDTO{
		ID:           q.ID,
		TeamID:       q.TeamID,
		Status:       q.Status,
		Currency:     q.Currency,
		CustomerName: q.CustomerName,
		CustomerRef:  q.CustomerRef,
		DeadlineNote: q.DeadlineNote,
		CreatedAt:    formatTime(q.CreatedAt),
		UpdatedAt:    formatTime(q.UpdatedAt),
	}

	if q.DeadlineDate != nil {
		d := formatDate(*q.DeadlineDate)
		dto.DeadlineDate = &d
	}

	if len(q.Items) > 0 {
		dto.Items = make([]domain.QuoteItemDTO, len(q.Items))
		for i := range q.Items {
			dto.Items[i] = ToQuoteItemDTO(&q.Items[i])
		}
	}

	if len(q.History) > 0 {
		dto.History = make([]domain.QuoteStatusChangeDTO, len(q.History))
		for i := range q.History {
			dto.History[i] = ToQuoteStatusChangeDTO(&q.History[i])
		}
	}

	return dto
}

// ToQuoteDTOs converts a slice of quotes
func ToQuoteDTOs(quotes []domain.Quote) []domain.QuoteDTO {
	dtos := make([]domain.QuoteDTO, len(quotes))
	for i := range quotes {
		dtos[i] = ToQuoteDTO(&quotes[i])
	}
	return dtos
}

// ToQuoteItemDTO converts a quote item with its method selections
func ToQuoteItemDTO(item *domain.QuoteItem) domain.QuoteItemDTO {
	dto := domain.QuoteItemDTO{
		ID:              item.ID,
		QuoteID:         item.QuoteID,
		Position:        item.Position,
		Name:            item.Name,
		Quantity:        item.Quantity,
		Unit:            item.Unit,
		UnitPrice:       item.UnitPrice,
		LineTotal:       item.LineTotal,
		Description:     item.Description,
		TypeID:          item.TypeID,
		KindID:          item.KindID,
		ModelID:         item.ModelID,
		PrintPositionID: item.PrintPositionID,
		PrintWidth:      item.PrintWidth,
		PrintHeight:     item.PrintHeight,
		AttachmentID:    item.AttachmentID,
		CreatedAt:       formatTime(item.CreatedAt),
		UpdatedAt:       formatTime(item.UpdatedAt),
	}

	if len(item.Methods) > 0 {
		dto.Methods = make([]domain.MethodSelectionDTO, len(item.Methods))
		for i, m := range item.Methods {
			dto.Methods[i] = domain.MethodSelectionDTO{
				MethodID: m.MethodID,
				Count:    m.Count,
			}
		}
	}

	return dto
}

// ToQuoteItemDTOs converts a slice of quote items
func ToQuoteItemDTOs(items []domain.QuoteItem) []domain.QuoteItemDTO {
	dtos := make([]domain.QuoteItemDTO, len(items))
	for i := range items {
		dtos[i] = ToQuoteItemDTO(&items[i])
	}
	return dtos
}

// ToQuoteStatusChangeDTO converts a status history row
func ToQuoteStatusChangeDTO(h *domain.QuoteStatusHistory) domain.QuoteStatusChangeDTO {
	return domain.QuoteStatusChangeDTO{
		ID:            h.ID,
		QuoteID:       h.QuoteID,
		FromStatus:    h.FromStatus,
		ToStatus:      h.ToStatus,
		Note:          h.Note,
		ChangedByID:   h.ChangedByID,
		ChangedByName: h.ChangedByName,
		ChangedAt:     formatTime(h.ChangedAt),
	}
}

// ToQuoteStatusChangeDTOs converts a slice of status history rows
func ToQuoteStatusChangeDTOs(history []domain.QuoteStatusHistory) []domain.QuoteStatusChangeDTO {
	dtos := make([]domain.QuoteStatusChangeDTO, len(history))
	for i := range history {
		dtos[i] = ToQuoteStatusChangeDTO(&history[i])
	}
	return dtos
}

// ToCatalogTypeDTO converts a catalog type without children
func ToCatalogTypeDTO(t *domain.CatalogType) domain.CatalogTypeDTO {
	return domain.CatalogTypeDTO{
		ID:           t.ID,
		Name:         t.Name,
		DisplayOrder: t.DisplayOrder,
	}
}

// ToCatalogKindDTO converts a catalog kind without children
func ToCatalogKindDTO(k *domain.CatalogKind) domain.CatalogKindDTO {
	return domain.CatalogKindDTO{
		ID:           k.ID,
		Name:         k.Name,
		DisplayOrder: k.DisplayOrder,
	}
}

// ToCatalogModelDTO converts a catalog model with its tiers
func ToCatalogModelDTO(m *domain.CatalogModel) domain.CatalogModelDTO {
	dto := domain.CatalogModelDTO{
		ID:        m.ID,
		Name:      m.Name,
		BasePrice: m.BasePrice,
		ImagePath: m.ImagePath,
	}
	if len(m.Tiers) > 0 {
		dto.Tiers = make([]domain.PriceTierDTO, len(m.Tiers))
		for i, tier := range m.Tiers {
			dto.Tiers[i] = domain.PriceTierDTO{
				MinQty: tier.MinQty,
				MaxQty: tier.MaxQty,
				Price:  tier.Price,
			}
		}
	}
	return dto
}

// ToCatalogMethodDTO converts a catalog method
func ToCatalogMethodDTO(m *domain.CatalogMethod) domain.CatalogMethodDTO {
	return domain.CatalogMethodDTO{
		ID:    m.ID,
		Name:  m.Name,
		Price: m.Price,
	}
}

// ToCatalogPrintPositionDTO converts a print position
func ToCatalogPrintPositionDTO(p *domain.CatalogPrintPosition) domain.CatalogPrintPositionDTO {
	return domain.CatalogPrintPositionDTO{
		ID:           p.ID,
		Label:        p.Label,
		DisplayOrder: p.DisplayOrder,
	}
}

// ToAttachmentDTO converts an attachment; url is resolved by the caller
func ToAttachmentDTO(a *domain.Attachment, url string) domain.AttachmentDTO {
	return domain.AttachmentDTO{
		ID:          a.ID,
		Filename:    a.Filename,
		ContentType: a.ContentType,
		Size:        a.Size,
		URL:         url,
		CreatedAt:   formatTime(a.CreatedAt),
	}
}
