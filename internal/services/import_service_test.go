package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapcrm/internal/models"
)

type fakeInserter struct {
	batches [][]models.Lead
	err     error
}

func (f *fakeInserter) BulkInsert(_ context.Context, leads []models.Lead) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, leads)
	return nil
}

func importer(inserter *fakeInserter) *ImportService {
	return NewImportService(inserter, zerolog.Nop())
}

func importActor() models.AppUser {
	return models.AppUser{ID: uuid.New(), Papel: models.RoleVendedor}
}

func TestImport_ValidRows(t *testing.T) {
	csv := "nome,empresa,email,telefone,valor,origem\n" +
		"Ana,AcmeCo,ana@x.com,5511999999999,1500.50,formulario\n" +
		"Bruno,BetaLtda,bruno@x.com,5511888888888,0,whatsapp\n"

	inserter := &fakeInserter{}
	actor := importActor()

	result, err := importer(inserter).Import(context.Background(), csv, actor)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Inserted)
	assert.Empty(t, result.Warnings)
	require.Len(t, inserter.batches, 1)

	leads := inserter.batches[0]
	require.Len(t, leads, 2)
	assert.Equal(t, "Ana", leads[0].Nome)
	assert.Equal(t, "AcmeCo", leads[0].Empresa)
	assert.Equal(t, "1500.5", leads[0].Valor.String())
	assert.Equal(t, models.OriginFormulario, leads[0].Origem)
	assert.Equal(t, models.StatusNovo, leads[0].Status)
	require.NotNil(t, leads[0].ResponsavelID)
	assert.Equal(t, actor.ID, *leads[0].ResponsavelID)
	assert.Equal(t, actor.ID, leads[0].CreatedBy)
}

func TestImport_RowWithoutNomeIsSkippedWithWarning(t *testing.T) {
	csv := "nome,empresa,email,telefone,valor,origem\n" +
		",SemNome,x@x.com,551100000000,10,outros\n" +
		"Carla,Gamma,carla@x.com,551122222222,200,indicacao\n"

	inserter := &fakeInserter{}
	result, err := importer(inserter).Import(context.Background(), csv, importActor())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inserted)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, 2, result.Warnings[0].Line)
	assert.Equal(t, "Linha 2 ignorada: o nome é obrigatório.", result.Warnings[0].Message)
}

func TestImport_InvalidValorFallsBackToZero(t *testing.T) {
	csv := "nome,empresa,email,telefone,valor,origem\n" +
		"Davi,Delta,davi@x.com,551133333333,abc,\n"

	inserter := &fakeInserter{}
	result, err := importer(inserter).Import(context.Background(), csv, importActor())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inserted)
	lead := inserter.batches[0][0]
	assert.True(t, lead.Valor.IsZero())
	// blank origem falls back to outros
	assert.Equal(t, models.OriginOutros, lead.Origem)
}

func TestImport_EmptyFile(t *testing.T) {
	for _, text := range []string{"", "\n\n", "nome,empresa,email,telefone,valor,origem\n"} {
		_, err := importer(&fakeInserter{}).Import(context.Background(), text, importActor())
		assert.ErrorIs(t, err, ErrEmptyImport)
	}
}

func TestImport_MissingHeaderColumn(t *testing.T) {
	csv := "nome,empresa,email\nAna,Acme,ana@x.com\n"
	_, err := importer(&fakeInserter{}).Import(context.Background(), csv, importActor())
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestImport_HeaderOrderIndependent(t *testing.T) {
	csv := "origem,valor,telefone,email,empresa,nome\n" +
		"formulario,99.90,5511777777777,eva@x.com,Epsilon,Eva\n"

	inserter := &fakeInserter{}
	result, err := importer(inserter).Import(context.Background(), csv, importActor())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inserted)
	lead := inserter.batches[0][0]
	assert.Equal(t, "Eva", lead.Nome)
	assert.Equal(t, "99.9", lead.Valor.String())
}

func TestImport_NoValidRowsWarnsAndSkipsInsert(t *testing.T) {
	csv := "nome,empresa,email,telefone,valor,origem\n" +
		",A,a@x.com,1,1,outros\n"

	inserter := &fakeInserter{}
	result, err := importer(inserter).Import(context.Background(), csv, importActor())
	require.NoError(t, err)

	assert.Zero(t, result.Inserted)
	assert.Empty(t, inserter.batches)
	require.NotEmpty(t, result.Warnings)
	last := result.Warnings[len(result.Warnings)-1]
	assert.Equal(t, "Nenhum lead válido encontrado para importar.", last.Message)
}

func TestImportTemplate_ParsesWithItsOwnGrammar(t *testing.T) {
	leads, warnings, err := ParseLeadsCSV(ImportTemplate, importActor())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, leads, 1)
	assert.Equal(t, "Exemplo Lead", leads[0].Nome)
	assert.Equal(t, models.OriginFormulario, leads[0].Origem)
}
