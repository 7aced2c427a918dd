package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spec-kit/intent-score/internal/domain"
)

// ErrCorruptSlot marks a slot whose payload could not be decoded.
var ErrCorruptSlot = errors.New("corrupt lead storage slot")

const snapshotVersion = 0

// LeadRepository persists the whole lead collection as one snapshot.
type LeadRepository interface {
	Load(ctx context.Context) ([]domain.Lead, error)
	Save(ctx context.Context, leads []domain.Lead) error
}

type leadSnapshot struct {
	State   leadSnapshotState `json:"state"`
	Version int               `json:"version"`
}

type leadSnapshotState struct {
	Leads []domain.Lead `json:"leads"`
}

type leadRepository struct {
	slots SlotRepository
	name  string
}

// NewLeadRepository stores the lead collection in the named slot.
func NewLeadRepository(slots SlotRepository, name string) LeadRepository {
	return &leadRepository{slots: slots, name: name}
}

// Load returns nil for an absent slot and ErrCorruptSlot when the payload is unreadable.
func (r *leadRepository) Load(ctx context.Context) ([]domain.Lead, error) {
	payload, err := r.slots.Read(ctx, r.name)
	if errors.Is(err, ErrSlotNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", r.name, err)
	}

	var snapshot leadSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSlot, err)
	}
	for _, lead := range snapshot.State.Leads {
		if lead.ID == "" || (lead.InitialScore == nil) != (lead.RerankedScore == nil) {
			return nil, fmt.Errorf("%w: invalid lead record", ErrCorruptSlot)
		}
	}
	return snapshot.State.Leads, nil
}

func (r *leadRepository) Save(ctx context.Context, leads []domain.Lead) error {
	if leads == nil {
		leads = []domain.Lead{}
	}
	payload, err := json.Marshal(leadSnapshot{
		State:   leadSnapshotState{Leads: leads},
		Version: snapshotVersion,
	})
	if err != nil {
		return fmt.Errorf("encode leads: %w", err)
	}
	if err := r.slots.Write(ctx, r.name, payload); err != nil {
		return fmt.Errorf("write slot %s: %w", r.name, err)
	}
	return nil
}
