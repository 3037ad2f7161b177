package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// timelineRepositoryInMemory хранит события заказов в памяти.
type timelineRepositoryInMemory struct {
	mu     sync.RWMutex
	events map[domain.OrderID][]domain.TimelineEvent
}

// NewTimelineRepository создаёт in-memory реализацию TimelineRepository.
func NewTimelineRepository() domain.TimelineRepository {
	return &timelineRepositoryInMemory{events: make(map[domain.OrderID][]domain.TimelineEvent)}
}

// Append добавляет событие, сохраняя хронологический порядок.
func (r *timelineRepositoryInMemory) Append(event domain.TimelineEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := append(r.events[event.OrderID], event)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Occurred.Before(events[j].Occurred)
	})
	r.events[event.OrderID] = events

	return nil
}

// List возвращает копию событий заказа в хронологическом порядке.
func (r *timelineRepositoryInMemory) List(orderID domain.OrderID) ([]domain.TimelineEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := r.events[orderID]
	result := make([]domain.TimelineEvent, len(events))
	copy(result, events)
	return result, nil
}

var _ domain.TimelineRepository = (*timelineRepositoryInMemory)(nil)
