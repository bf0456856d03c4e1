package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturasv/dte-api/internal/application/dto"
	"github.com/facturasv/dte-api/internal/domain"
	"github.com/facturasv/dte-api/internal/domain/entity"
	pkgdte "github.com/facturasv/dte-api/pkg/dte"
)

func contingencyRequest(ids ...string) dto.SubmitContingencyRequest {
	return dto.SubmitContingencyRequest{
		Start:             "2026-08-28T09:00:00Z",
		End:               "2026-08-28T11:30:00Z",
		Tipo:              pkgdte.ContingenciaFallaMH,
		Reason:            "Caída del sistema de transmisión del MH",
		ResponsableNombre: "Ana Martínez",
		ResponsableDUI:    "012345678",
		InvoiceIDs:        ids,
	}
}

func TestContingencySubmitHappyPath(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	a := env.seedInvoice(pkgdte.TipoFactura)
	b := env.seedInvoice(pkgdte.TipoFactura)
	c := env.seedInvoice(pkgdte.TipoFactura)

	var progreso []int
	outcome, err := env.contingency.Submit(ctx, env.company.ID, contingencyRequest(a.ID, b.ID, c.ID),
		func(done, total int) { progreso = append(progreso, done) })
	require.NoError(t, err)

	assert.True(t, outcome.Declared)
	assert.Equal(t, 3, outcome.Succeeded)
	assert.Equal(t, 0, outcome.Failed)
	assert.Equal(t, 3, outcome.Total)
	assert.Equal(t, []int{1, 2, 3}, progreso)

	// La declaración llevó los tres códigos de generación definitivos.
	assert.Equal(t, 1, env.declarer.calls)
	assert.Len(t, env.declarer.codigos, 3)

	for _, id := range []string{a.ID, b.ID, c.ID} {
		stored, err := env.invoiceRepo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusCompleted, stored.Status)
		assert.Equal(t, outcome.EventID, stored.ContingencyID)
		assert.NotEmpty(t, stored.SelloRecibido)
	}

	event, err := env.contingencyRepo.GetByID(ctx, outcome.EventID)
	require.NoError(t, err)
	assert.True(t, event.Declared)
	assert.Equal(t, "SELLO-EVENTO", event.SelloRecibido)
	assert.Equal(t, 3, event.Succeeded)
}

func TestContingencyIndividualFailureDoesNotStopBatch(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	a := env.seedInvoice(pkgdte.TipoFactura)
	b := env.seedInvoice(pkgdte.TipoFactura)
	c := env.seedInvoice(pkgdte.TipoFactura)

	// El segundo envío falla por transporte; el tercero continúa.
	env.transmitter.script = []transmitStep{
		{},
		{err: errors.New("timeout")},
	}

	outcome, err := env.contingency.Submit(ctx, env.company.ID, contingencyRequest(a.ID, b.ID, c.ID), nil)
	require.NoError(t, err)

	assert.True(t, outcome.Declared)
	assert.Equal(t, 2, outcome.Succeeded)
	assert.Equal(t, 1, outcome.Failed)
	assert.Equal(t, 3, outcome.Total)

	storedB, _ := env.invoiceRepo.GetByID(ctx, b.ID)
	assert.Equal(t, entity.StatusNew, storedB.Status)
	assert.NotEmpty(t, storedB.NumeroControl) // reintentable con el mismo número

	event, _ := env.contingencyRepo.GetByID(ctx, outcome.EventID)
	assert.Equal(t, 2, event.Succeeded)
	assert.Equal(t, 1, event.Failed)
}

func TestContingencyDeclarationRejectionAbortsBatch(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	a := env.seedInvoice(pkgdte.TipoFactura)
	b := env.seedInvoice(pkgdte.TipoFactura)
	env.declarer.err = errors.New("evento rechazado")

	_, err := env.contingency.Submit(ctx, env.company.ID, contingencyRequest(a.ID, b.ID), nil)
	require.Error(t, err)

	// Ningún documento se transmite sin declaración sellada.
	assert.Zero(t, env.transmitter.calls)

	events, err := env.contingencyRepo.ListByCompany(ctx, env.company.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Declared)
}

func TestContingencyValidatesResponsableDUI(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	inv := env.seedInvoice(pkgdte.TipoFactura)

	req := contingencyRequest(inv.ID)
	req.ResponsableDUI = "12345" // menos de 9 dígitos

	_, err := env.contingency.Submit(ctx, env.company.ID, req, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, env.declarer.calls)
}

func TestContingencyValidatesWindow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	inv := env.seedInvoice(pkgdte.TipoFactura)

	req := contingencyRequest(inv.ID)
	req.Start = "2026-08-28T11:30:00Z"
	req.End = "2026-08-28T09:00:00Z"

	_, err := env.contingency.Submit(ctx, env.company.ID, req, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestContingencyRejectsNonNewInvoices(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	done := env.seedInvoice(pkgdte.TipoFactura)
	_, err := env.sync.Sync(ctx, done.ID)
	require.NoError(t, err)
	pending := env.seedInvoice(pkgdte.TipoFactura)

	_, err = env.contingency.Submit(ctx, env.company.ID, contingencyRequest(done.ID, pending.ID), nil)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Zero(t, env.declarer.calls)
}

func TestContingencyHonorsCancellationBetweenInvoices(t *testing.T) {
	env := newTestEnv()
	inv := env.seedInvoice(pkgdte.TipoFactura)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.contingency.Submit(ctx, env.company.ID, contingencyRequest(inv.ID), nil)
	assert.ErrorIs(t, err, context.Canceled)
	// La cancelación corta entre documentos: ninguno quedó a medio transmitir.
	assert.Zero(t, env.transmitter.calls)

	events, _ := env.contingencyRepo.ListByCompany(context.Background(), env.company.ID, 10, 0)
	require.Len(t, events, 1)
	assert.Equal(t, 0, events[0].Succeeded)
}

// Un documento que entra al lote ya numerado (su transmisión en línea falló
// después de asignar identificadores) también debe quedar vinculado al evento:
// la asignación lo ignora por idempotencia, así que el vínculo se persiste
// aparte.
func TestContingencyLinksPreAllocatedInvoiceToEvent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	prenumerada := env.seedInvoice(pkgdte.TipoFactura)
	prenumerada.NumeroControl = "00001"
	prenumerada.CodigoGeneracion = "A3E1F2D4-0000-4000-8000-000000000001"
	require.NoError(t, env.invoiceRepo.Update(ctx, prenumerada))
	fresca := env.seedInvoice(pkgdte.TipoFactura)

	outcome, err := env.contingency.Submit(ctx, env.company.ID, contingencyRequest(prenumerada.ID, fresca.ID), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Succeeded)

	storedPre, err := env.invoiceRepo.GetByID(ctx, prenumerada.ID)
	require.NoError(t, err)
	assert.Equal(t, outcome.EventID, storedPre.ContingencyID, "documento pre-numerado")
	// Los identificadores previos sobreviven intactos.
	assert.Equal(t, "00001", storedPre.NumeroControl)
	assert.Equal(t, "A3E1F2D4-0000-4000-8000-000000000001", storedPre.CodigoGeneracion)

	storedFresca, err := env.invoiceRepo.GetByID(ctx, fresca.ID)
	require.NoError(t, err)
	assert.Equal(t, outcome.EventID, storedFresca.ContingencyID)
}
