package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/probegapp/probeg/internal/domain/organizer"
	"github.com/probegapp/probeg/internal/platform/id"
)

type OrganizerRepository struct {
	mu    sync.RWMutex
	items map[string]organizer.Organizer
	order []string
	idGen id.Generator
}

func NewOrganizerRepository(idGen id.Generator) *OrganizerRepository {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	return &OrganizerRepository{items: make(map[string]organizer.Organizer), idGen: idGen}
}

func (r *OrganizerRepository) GetOrCreateByName(_ context.Context, name string) (organizer.Organizer, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return organizer.Organizer{}, fmt.Errorf("organizer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range r.order {
		item := r.items[key]
		if strings.EqualFold(item.Name, trimmed) {
			return item, nil
		}
	}

	publicID, err := r.idGen.NewID()
	if err != nil {
		return organizer.Organizer{}, fmt.Errorf("generate organizer id: %w", err)
	}
	item := organizer.Organizer{
		ID:        publicID,
		Name:      trimmed,
		CreatedAt: time.Now().UTC(),
	}
	r.items[item.ID] = item
	r.order = append(r.order, item.ID)
	return item, nil
}

func (r *OrganizerRepository) GetByName(_ context.Context, name string) (organizer.Organizer, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trimmed := strings.TrimSpace(name)
	for _, key := range r.order {
		item := r.items[key]
		if strings.EqualFold(item.Name, trimmed) {
			return item, true, nil
		}
	}
	return organizer.Organizer{}, false, nil
}

func (r *OrganizerRepository) List(_ context.Context) ([]organizer.Organizer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]organizer.Organizer, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.items[key])
	}
	return out, nil
}
