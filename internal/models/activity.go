package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityLigacao ActivityType = "ligação"
	ActivityEmail   ActivityType = "email"
	ActivityReuniao ActivityType = "reunião"
	ActivityOutro   ActivityType = "outro"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityLigacao, ActivityEmail, ActivityReuniao, ActivityOutro:
		return true
	}
	return false
}

type Activity struct {
	ID        int64        `json:"id"`
	LeadID    uuid.UUID    `json:"lead_id"`
	Tipo      ActivityType `json:"tipo"`
	Descricao string       `json:"descricao"`
	CreatedBy uuid.UUID    `json:"created_by"`
	CreatedAt time.Time    `json:"created_at"`
}

func (a *Activity) Validate() error {
	if !a.Tipo.Valid() {
		return errors.New("invalid tipo: " + string(a.Tipo))
	}
	if a.Descricao == "" {
		return errors.New("descricao is required")
	}
	return nil
}
