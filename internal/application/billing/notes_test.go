package billing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturasv/dte-api/internal/application/dto"
	"github.com/facturasv/dte-api/internal/domain"
	"github.com/facturasv/dte-api/internal/domain/entity"
	pkgdte "github.com/facturasv/dte-api/pkg/dte"
)

func TestCreateNoteCopiesItemsByValue(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	original := env.seedInvoice(pkgdte.TipoCCF)

	note, err := env.notes.CreateNote(ctx, env.company.ID, dto.CreateNoteRequest{
		OriginalID: original.ID,
		TipoDte:    pkgdte.TipoNotaCredito,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusNew, note.Status)
	assert.Empty(t, note.CodigoGeneracion)
	assert.Empty(t, note.NumeroControl)
	assert.Equal(t, "NC-F-001", note.Number)
	assert.True(t, note.GrandTotal.Equal(decimal.RequireFromString("40.00")))
	assert.True(t, note.TaxTotal.Equal(decimal.RequireFromString("4.60")))

	noteItems, err := env.invoiceRepo.GetItems(ctx, note.ID)
	require.NoError(t, err)
	originalItems, err := env.invoiceRepo.GetItems(ctx, original.ID)
	require.NoError(t, err)
	require.Len(t, noteItems, len(originalItems))
	for i, it := range noteItems {
		// Copia por valor: mismas cantidades y precios, identidad propia.
		assert.NotEqual(t, originalItems[i].ID, it.ID)
		assert.Equal(t, note.ID, it.InvoiceID)
		assert.True(t, originalItems[i].Quantity.Equal(it.Quantity))
		assert.True(t, originalItems[i].UnitPrice.Equal(it.UnitPrice))
	}

	stored, err := env.invoiceRepo.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, original.ID, stored.RelatedID)
	assert.Equal(t, pkgdte.TipoCCF, stored.RelatedTipoDte)
}

func TestCreateNoteDebitPrefix(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	original := env.seedInvoice(pkgdte.TipoCCF)

	note, err := env.notes.CreateNote(ctx, env.company.ID, dto.CreateNoteRequest{
		OriginalID: original.ID,
		TipoDte:    pkgdte.TipoNotaDebito,
	})
	require.NoError(t, err)
	assert.Equal(t, "ND-F-001", note.Number)
}

func TestCreateNoteOnNoteRejected(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	original := env.seedInvoice(pkgdte.TipoCCF)

	note, err := env.notes.CreateNote(ctx, env.company.ID, dto.CreateNoteRequest{
		OriginalID: original.ID,
		TipoDte:    pkgdte.TipoNotaCredito,
	})
	require.NoError(t, err)

	_, err = env.notes.CreateNote(ctx, env.company.ID, dto.CreateNoteRequest{
		OriginalID: note.ID,
		TipoDte:    pkgdte.TipoNotaCredito,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateNoteOnVoidedRejected(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	original := env.seedInvoice(pkgdte.TipoCCF)
	original.Status = entity.StatusVoided
	require.NoError(t, env.invoiceRepo.Update(ctx, original))

	_, err := env.notes.CreateNote(ctx, env.company.ID, dto.CreateNoteRequest{
		OriginalID: original.ID,
		TipoDte:    pkgdte.TipoNotaCredito,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateNoteOtherCompanyNotFound(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	original := env.seedInvoice(pkgdte.TipoCCF)

	_, err := env.notes.CreateNote(ctx, "otra-empresa", dto.CreateNoteRequest{
		OriginalID: original.ID,
		TipoDte:    pkgdte.TipoNotaCredito,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVoidOriginalRequiresProcessedNote(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	original := env.seedInvoice(pkgdte.TipoCCF)
	resp, err := env.notes.CreateNote(ctx, env.company.ID, dto.CreateNoteRequest{
		OriginalID: original.ID,
		TipoDte:    pkgdte.TipoNotaCredito,
	})
	require.NoError(t, err)
	note, err := env.invoiceRepo.GetByID(ctx, resp.ID)
	require.NoError(t, err)

	err = env.notes.VoidOriginal(ctx, note)
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, _ := env.invoiceRepo.GetByID(ctx, original.ID)
	assert.Equal(t, entity.StatusNew, stored.Status)
}

func TestVoidOriginalIdempotentWhenAlreadyVoided(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	original := env.seedInvoice(pkgdte.TipoCCF)
	_, err := env.sync.Sync(ctx, original.ID)
	require.NoError(t, err)

	resp, err := env.notes.CreateNote(ctx, env.company.ID, dto.CreateNoteRequest{
		OriginalID: original.ID,
		TipoDte:    pkgdte.TipoNotaCredito,
	})
	require.NoError(t, err)
	_, err = env.sync.Sync(ctx, resp.ID)
	require.NoError(t, err)

	// La cascada ya anuló el original; repetir la anulación es inocuo.
	note, err := env.invoiceRepo.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	require.NoError(t, env.notes.VoidOriginal(ctx, note))

	stored, _ := env.invoiceRepo.GetByID(ctx, original.ID)
	assert.Equal(t, entity.StatusVoided, stored.Status)
}

func TestVoidOriginalMissingOriginal(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	note := &entity.Invoice{
		ID:        "nota-huerfana",
		TipoDte:   pkgdte.TipoNotaCredito,
		Status:    entity.StatusCompleted,
		RelatedID: "no-existe",
	}
	err := env.notes.VoidOriginal(ctx, note)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSyncNoteBoundAgainstOriginalTotal(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	original := env.seedInvoice(pkgdte.TipoCCF)
	_, err := env.sync.Sync(ctx, original.ID)
	require.NoError(t, err)

	resp, err := env.notes.CreateNote(ctx, env.company.ID, dto.CreateNoteRequest{
		OriginalID: original.ID,
		TipoDte:    pkgdte.TipoNotaCredito,
	})
	require.NoError(t, err)

	// El total del original baja por debajo del de la nota: la transmisión se
	// rechaza localmente, nunca se ajusta el monto de la nota.
	stored, _ := env.invoiceRepo.GetByID(ctx, original.ID)
	stored.GrandTotal = decimal.RequireFromString("39.99")
	require.NoError(t, env.invoiceRepo.Update(ctx, stored))

	callsBefore := env.transmitter.calls
	_, err = env.sync.Sync(ctx, resp.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, callsBefore, env.transmitter.calls)
}
