package core

import (
	"fmt"

	"github.com/nervilabs/nervi-backend/internal/store"
)

// TriggerStore is the slice of the store the trigger service needs.
type TriggerStore interface {
	ListTriggerBuffers(userID, typ string) ([]store.TriggerBuffer, error)
	CreateTriggerBuffer(item *store.TriggerBuffer) error
	IncrementTriggerBuffer(userID, id string) error
	DeleteTriggerBuffer(userID, id string) error
}

// TriggerService manages observed triggers and buffers. Repeat
// observations bump the confidence counter; there is no decay.
type TriggerService struct {
	triggers TriggerStore
}

func NewTriggerService(triggers TriggerStore) *TriggerService {
	return &TriggerService{triggers: triggers}
}

func (s *TriggerService) List(userID, typ string) ([]store.TriggerBuffer, error) {
	if typ != "" && typ != store.TypeTrigger && typ != store.TypeBuffer {
		return nil, fmt.Errorf("type must be %q or %q", store.TypeTrigger, store.TypeBuffer)
	}
	return s.triggers.ListTriggerBuffers(userID, typ)
}

func (s *TriggerService) Create(userID, typ, name string, context []string) (*store.TriggerBuffer, error) {
	if typ != store.TypeTrigger && typ != store.TypeBuffer {
		return nil, fmt.Errorf("type must be %q or %q", store.TypeTrigger, store.TypeBuffer)
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	item := &store.TriggerBuffer{
		UserID:  userID,
		Type:    typ,
		Name:    name,
		Context: context,
	}
	if err := s.triggers.CreateTriggerBuffer(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *TriggerService) Increment(userID, id string) error {
	return s.triggers.IncrementTriggerBuffer(userID, id)
}

func (s *TriggerService) Delete(userID, id string) error {
	return s.triggers.DeleteTriggerBuffer(userID, id)
}
