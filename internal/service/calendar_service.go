package service

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/projection"
	"github.com/shopspring/decimal"
)

// MaxCalendarDays bounds a single calendar request
const MaxCalendarDays = 366

// CalendarService merges recorded transactions with projected items
type CalendarService struct {
	store        *RecordStore
	transactions *TransactionService
	opts         projection.Options
}

// NewCalendarService creates a new CalendarService
func NewCalendarService(store *RecordStore, transactions *TransactionService, opts projection.Options) *CalendarService {
	return &CalendarService{store: store, transactions: transactions, opts: opts}
}

// DayView is every item on a single date with the day's net flow
type DayView struct {
	Date    civil.Date        `json:"date"`
	Items   []projection.Item `json:"items"`
	NetFlow decimal.Decimal   `json:"netFlow"`
}

// GetCalendar projects the window [start, end]
func (s *CalendarService) GetCalendar(ctx context.Context, workspaceID int32, start, end civil.Date) (*projection.Calendar, error) {
	if end.Before(start) {
		return nil, domain.ErrInvalidDateRange
	}
	if end.DaysSince(start)+1 > MaxCalendarDays {
		return nil, domain.ErrDateRangeTooLarge
	}

	snapshot, err := s.store.Snapshot(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return projection.NewCalendar(snapshot, start, end, s.opts)
}

// GetDay returns the items on date
func (s *CalendarService) GetDay(ctx context.Context, workspaceID int32, date civil.Date) (*DayView, error) {
	cal, err := s.GetCalendar(ctx, workspaceID, date, date)
	if err != nil {
		return nil, err
	}
	return &DayView{
		Date:    date,
		Items:   cal.ItemsForDate(date),
		NetFlow: cal.NetFlow(date),
	}, nil
}

// DeleteItem deletes the transaction behind a calendar item. Projected items are
// rejected with domain.ErrVirtualItemNotDeletable.
func (s *CalendarService) DeleteItem(workspaceID int32, itemID string) error {
	id, err := projection.ParseTransactionItemID(itemID)
	if err != nil {
		return err
	}
	return s.transactions.DeleteTransaction(workspaceID, id)
}
