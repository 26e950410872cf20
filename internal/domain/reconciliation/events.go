package reconciliation

import (
	"github.com/shopspring/decimal"

	"github.com/venueops/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSession = "ReconciliationSession"

// Event type constants
const (
	EventTypeSessionOpened = "ReconciliationSessionOpened"
	EventTypeSessionClosed = "ReconciliationSessionClosed"
)

// SessionOpenedEvent is raised when a reconciliation session is opened
type SessionOpenedEvent struct {
	shared.BaseDomainEvent
	ItemCount int `json:"item_count"`
}

// NewSessionOpenedEvent creates a new SessionOpenedEvent
func NewSessionOpenedEvent(s *Session) *SessionOpenedEvent {
	return &SessionOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionOpened, AggregateTypeSession, s.ID),
		ItemCount:       len(s.Items),
	}
}

// EventType returns the event type name
func (e *SessionOpenedEvent) EventType() string {
	return EventTypeSessionOpened
}

// SessionClosedEvent is raised when a session transitions to CLOSED
type SessionClosedEvent struct {
	shared.BaseDomainEvent
	CountedItems      int             `json:"counted_items"`
	TotalItems        int             `json:"total_items"`
	ReportedRevenue   decimal.Decimal `json:"reported_revenue"`
	CalculatedRevenue decimal.Decimal `json:"calculated_revenue"`
	RevenueDifference decimal.Decimal `json:"revenue_difference"`
}

// NewSessionClosedEvent creates a new SessionClosedEvent
func NewSessionClosedEvent(s *Session) *SessionClosedEvent {
	return &SessionClosedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeSessionClosed, AggregateTypeSession, s.ID),
		CountedItems:      s.CountedItems(),
		TotalItems:        len(s.Items),
		ReportedRevenue:   s.ReportedRevenue,
		CalculatedRevenue: s.CalculatedRevenue,
		RevenueDifference: s.RevenueDifference,
	}
}

// EventType returns the event type name
func (e *SessionClosedEvent) EventType() string {
	return EventTypeSessionClosed
}
