// Package journal keeps an in-memory history of engine events so a run can
// be inspected after the fact.
package journal

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/viant/ossim/internal/idgen"
	"github.com/viant/ossim/internal/logging"
	"github.com/viant/ossim/service/dao"
	"github.com/viant/ossim/service/dao/criteria"
	"github.com/viant/ossim/service/dao/store"
	"github.com/viant/ossim/service/event"
)

// Filter parameter names accepted by List.
const (
	ParamEngine    = "Engine"
	ParamEventType = "EventType"
	ParamProcessID = "ProcessID"
)

// Record is one journaled event.
type Record struct {
	ID        string      `json:"id"`
	Seq       int64       `json:"seq"`
	Engine    string      `json:"engine"`
	EventType string      `json:"eventType"`
	ProcessID string      `json:"processID,omitempty"`
	Tick      int         `json:"tick,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	Data      interface{} `json:"data"`
}

func (r *Record) fields() map[string]string {
	return map[string]string{
		ParamEngine:    r.Engine,
		ParamEventType: r.EventType,
		ParamProcessID: r.ProcessID,
		"Tick":         strconv.Itoa(r.Tick),
	}
}

// Service stores records in insertion order.
type Service struct {
	store  *store.MemoryStore[string, Record]
	seq    int64
	logger *slog.Logger
}

var _ dao.Service[string, Record] = (*store.MemoryStore[string, Record])(nil)

// New creates an empty journal.
func New(logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		store: store.NewMemoryStore[string, Record](
			func(r *Record) string { return r.ID },
			func(r *Record, parameters []*dao.Parameter) bool { return criteria.Match(r.fields(), parameters) },
		),
		logger: logger,
	}
}

// Record journals e.
func (s *Service) Record(ctx context.Context, e *event.Event[any]) error {
	if e == nil {
		return dao.ErrNilEntity
	}
	record := &Record{
		ID:        idgen.New(),
		Seq:       atomic.AddInt64(&s.seq, 1),
		CreatedAt: e.CreatedAt,
		Data:      e.Data,
	}
	if c := e.Context; c != nil {
		record.Engine = c.Engine
		record.EventType = c.EventType
		record.ProcessID = c.ProcessID
		record.Tick = c.Tick
	}
	return s.store.Save(ctx, record)
}

// Handler adapts the journal to an event listener. A failed record is
// returned so the listener nacks the event.
func (s *Service) Handler() func(*event.Event[any]) error {
	return func(e *event.Event[any]) error {
		err := s.Record(context.Background(), e)
		if err != nil {
			s.logger.Warn("failed to journal event", logging.ErrAttr(err))
		}
		return err
	}
}

// Load returns a record by id.
func (s *Service) Load(ctx context.Context, id string) (*Record, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	return s.store.Load(ctx, id)
}

// List returns the records matching parameters in the order they were
// recorded.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*Record, error) {
	records, err := s.store.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Seq < records[j].Seq })
	return records, nil
}

// Len returns the number of records.
func (s *Service) Len() int { return s.store.Len() }
