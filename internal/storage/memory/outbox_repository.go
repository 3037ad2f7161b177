package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// compactThreshold задаёт, сколько удалённых идентификаторов может накопиться в очереди до её пересборки.
const compactThreshold = 64

// outboxRecord хранит pending-сообщение и время постановки в очередь.
type outboxRecord struct {
	msg       domain.OutboxMessage
	createdAt time.Time
}

// OutboxRepository хранит события заказов до публикации и выдаёт их в порядке постановки.
// Опубликованные и отброшенные сообщения удаляются, память растёт только с backlog.
type OutboxRepository struct {
	mu      sync.RWMutex
	queue   []string
	records map[string]*outboxRecord
}

// NewOutboxRepository создаёт in-memory реализацию outbox.
func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{records: make(map[string]*outboxRecord)}
}

// Enqueue сохраняет событие в статусе pending и возвращает его с назначенным идентификатором.
func (r *OutboxRepository) Enqueue(msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if _, exists := r.records[msg.ID]; exists {
		return domain.OutboxMessage{}, domain.ErrDuplicateID
	}
	r.records[msg.ID] = &outboxRecord{msg: msg, createdAt: time.Now().UTC()}
	r.queue = append(r.queue, msg.ID)
	return msg, nil
}

// PullPending возвращает до limit самых старых pending-сообщений.
func (r *OutboxRepository) PullPending(limit int) ([]domain.OutboxMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	result := make([]domain.OutboxMessage, 0, min(limit, len(r.records)))
	for _, id := range r.queue {
		rec, ok := r.records[id]
		if !ok {
			continue
		}
		result = append(result, rec.msg)
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

// Stats возвращает размер backlog и время самого старого pending-сообщения.
func (r *OutboxRepository) Stats() (domain.OutboxStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := domain.OutboxStats{PendingCount: len(r.records)}
	for _, id := range r.queue {
		if rec, ok := r.records[id]; ok {
			stats.OldestPendingAt = rec.createdAt
			break
		}
	}
	return stats, nil
}

// MarkSent удаляет опубликованное сообщение из outbox.
func (r *OutboxRepository) MarkSent(id string) error {
	return r.remove(id)
}

// MarkFailed удаляет сообщение, для которого исчерпаны попытки публикации.
func (r *OutboxRepository) MarkFailed(id string) error {
	return r.remove(id)
}

func (r *OutboxRepository) remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return fmt.Errorf("outbox message %s: %w", id, domain.ErrNotFound)
	}
	delete(r.records, id)
	r.compact()
	return nil
}

// compact отрезает удалённые идентификаторы из головы очереди и пересобирает её,
// когда удалённых накопилось больше compactThreshold. Вызывается под r.mu.
func (r *OutboxRepository) compact() {
	head := 0
	for head < len(r.queue) {
		if _, ok := r.records[r.queue[head]]; ok {
			break
		}
		head++
	}
	r.queue = r.queue[head:]

	if len(r.queue)-len(r.records) <= compactThreshold {
		return
	}
	queue := make([]string, 0, len(r.records))
	for _, id := range r.queue {
		if _, ok := r.records[id]; ok {
			queue = append(queue, id)
		}
	}
	r.queue = queue
}

var _ domain.OutboxRepository = (*OutboxRepository)(nil)
