package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"zapcrm/internal/models"
)

// The CSV grammar is the naive one the import has always used: lines
// split on newlines, fields split positionally on commas, no quoting
// or escaping. A field containing a comma will be split. This is a
// documented limitation, and the downloadable template states the
// expected shape.

var (
	ErrEmptyImport    = errors.New("arquivo CSV vazio ou inválido")
	ErrInvalidHeader  = errors.New("cabeçalho do CSV inválido")
	requiredCSVFields = []string{"nome", "empresa", "email", "telefone", "valor", "origem"}
)

// ImportTemplate is the downloadable example file.
const ImportTemplate = "nome,empresa,email,telefone,valor,origem\n" +
	"Exemplo Lead,Empresa Exemplo,exemplo@email.com,5511999999999,1500.50,formulario\n"

type ImportWarning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type ImportResult struct {
	Inserted int             `json:"inserted"`
	Warnings []ImportWarning `json:"warnings"`
}

type LeadInserter interface {
	BulkInsert(ctx context.Context, leads []models.Lead) error
}

type ImportService struct {
	leads LeadInserter
	log   zerolog.Logger
}

func NewImportService(leads LeadInserter, log zerolog.Logger) *ImportService {
	return &ImportService{leads: leads, log: log}
}

// Import parses the CSV text and writes all valid rows in one batch.
// Row-level problems become warnings, not failures; only a missing or
// wrong header fails the whole import.
func (s *ImportService) Import(ctx context.Context, text string, actor models.AppUser) (*ImportResult, error) {
	leads, warnings, err := ParseLeadsCSV(text, actor)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Warnings: warnings}
	if len(leads) == 0 {
		result.Warnings = append(result.Warnings, ImportWarning{
			Message: "Nenhum lead válido encontrado para importar.",
		})
		return result, nil
	}

	if err := s.leads.BulkInsert(ctx, leads); err != nil {
		return nil, fmt.Errorf("erro ao importar: %w", err)
	}
	result.Inserted = len(leads)
	return result, nil
}

// ParseLeadsCSV turns the raw text into lead records. The first
// non-blank line is the header and must contain every required field
// name (order-independent, extra columns ignored). Rows without a nome
// are skipped with a per-row warning; valor falls back to zero when it
// does not parse; a blank origem falls back to "outros". Imported rows
// start in Novo and belong to the importing user.
func ParseLeadsCSV(text string, actor models.AppUser) ([]models.Lead, []ImportWarning, error) {
	var lines []string
	for _, line := range strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' }) {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, nil, ErrEmptyImport
	}

	headers := strings.Split(lines[0], ",")
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	for _, required := range requiredCSVFields {
		if !containsField(headers, required) {
			return nil, nil, fmt.Errorf("%w: coluna %q ausente", ErrInvalidHeader, required)
		}
	}

	var (
		leads    []models.Lead
		warnings []ImportWarning
		now      = time.Now()
	)
	for i := 1; i < len(lines); i++ {
		values := strings.Split(lines[i], ",")
		row := make(map[string]string, len(headers))
		for j, header := range headers {
			if j < len(values) {
				row[header] = strings.TrimSpace(values[j])
			} else {
				row[header] = ""
			}
		}

		if row["nome"] == "" {
			warnings = append(warnings, ImportWarning{
				Line:    i + 1,
				Message: fmt.Sprintf("Linha %d ignorada: o nome é obrigatório.", i+1),
			})
			continue
		}

		valor, err := strconv.ParseFloat(row["valor"], 64)
		if err != nil {
			valor = 0
		}
		origem := models.LeadOrigin(row["origem"])
		if origem == "" {
			origem = models.OriginOutros
		}

		responsavel := actor.ID
		leads = append(leads, models.Lead{
			ID:            uuid.New(),
			Nome:          row["nome"],
			Empresa:       row["empresa"],
			Email:         row["email"],
			Telefone:      row["telefone"],
			Valor:         decimal.NewFromFloat(valor),
			Origem:        origem,
			Status:        models.StatusNovo,
			ResponsavelID: &responsavel,
			CreatedBy:     actor.ID,
			CreatedAt:     now,
		})
	}

	return leads, warnings, nil
}

func containsField(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}
