package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrLeadNotFound = errors.New("lead not found")
	ErrInvalidLead  = errors.New("invalid lead")
)

// LeadStatus is one of the fixed pipeline stages. The declaration order
// of PipelineStatuses defines the column order on the board.
type LeadStatus string

const (
	StatusNovo        LeadStatus = "Novo"
	StatusAtendimento LeadStatus = "Atendimento"
	StatusGanho       LeadStatus = "Ganho"
	StatusPerdido     LeadStatus = "Perdido"
)

func PipelineStatuses() []LeadStatus {
	return []LeadStatus{StatusNovo, StatusAtendimento, StatusGanho, StatusPerdido}
}

func (s LeadStatus) Valid() bool {
	switch s {
	case StatusNovo, StatusAtendimento, StatusGanho, StatusPerdido:
		return true
	}
	return false
}

// LeadOrigin is the acquisition channel.
type LeadOrigin string

const (
	OriginFormulario   LeadOrigin = "formulario"
	OriginWhatsapp     LeadOrigin = "whatsapp"
	OriginRedesSociais LeadOrigin = "redes_sociais"
	OriginIndicacao    LeadOrigin = "indicacao"
	OriginOutros       LeadOrigin = "outros"
)

func (o LeadOrigin) Valid() bool {
	switch o {
	case OriginFormulario, OriginWhatsapp, OriginRedesSociais, OriginIndicacao, OriginOutros:
		return true
	}
	return false
}

type Lead struct {
	ID            uuid.UUID       `json:"id"`
	Nome          string          `json:"nome"`
	Empresa       string          `json:"empresa,omitempty"`
	Email         string          `json:"email,omitempty"`
	Telefone      string          `json:"telefone,omitempty"`
	Valor         decimal.Decimal `json:"valor"`
	Origem        LeadOrigin      `json:"origem"`
	Status        LeadStatus      `json:"status"`
	ResponsavelID *uuid.UUID      `json:"responsavel_id,omitempty"`
	CreatedBy     uuid.UUID       `json:"created_by"`
	Observacoes   string          `json:"observacoes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
}

// Validate checks the invariants that hold for every persisted lead:
// status and origin are members of their enums, valor is non-negative
// and nome is present.
func (l *Lead) Validate() error {
	if l.Nome == "" {
		return errors.New("nome is required")
	}
	if !l.Status.Valid() {
		return errors.New("invalid status: " + string(l.Status))
	}
	if !l.Origem.Valid() {
		return errors.New("invalid origem: " + string(l.Origem))
	}
	if l.Valor.IsNegative() {
		return errors.New("valor must be >= 0")
	}
	return nil
}

// AssignedTo reports whether the lead is assigned to the given user.
// Unassigned leads belong to nobody.
func (l *Lead) AssignedTo(userID uuid.UUID) bool {
	return l.ResponsavelID != nil && *l.ResponsavelID == userID
}
