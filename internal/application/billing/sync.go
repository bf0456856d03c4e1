package billing

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/qmuntal/stateless"

	"github.com/facturasv/dte-api/internal/application/dto"
	"github.com/facturasv/dte-api/internal/domain"
	"github.com/facturasv/dte-api/internal/domain/dte"
	"github.com/facturasv/dte-api/internal/domain/entity"
	"github.com/facturasv/dte-api/internal/domain/repository"
	"github.com/facturasv/dte-api/pkg/logger"
	pkgdte "github.com/facturasv/dte-api/pkg/dte"
)

// Triggers de la máquina de estados de transmisión.
const (
	triggerTransmit = "transmitir"
	triggerAccept   = "aceptar"
	triggerReject   = "rechazar"
	triggerVoid     = "anular"
)

// newTransmissionMachine arma la máquina de transiciones legales del documento:
//
//	NUEVO --transmitir--> TRANSMITIENDO --aceptar--> PROCESADO --anular--> ANULADO
//	                      TRANSMITIENDO --rechazar--> NUEVO (reintentable)
//
// Cualquier otro disparo es ilegal y stateless lo rechaza.
func newTransmissionMachine(initial string) *stateless.StateMachine {
	m := stateless.NewStateMachine(initial)
	m.Configure(entity.StatusNew).
		Permit(triggerTransmit, entity.StatusTransmitting)
	m.Configure(entity.StatusTransmitting).
		Permit(triggerAccept, entity.StatusCompleted).
		Permit(triggerReject, entity.StatusNew)
	m.Configure(entity.StatusCompleted).
		Permit(triggerVoid, entity.StatusVoided)
	return m
}

// OriginalVoider anula el documento original referido por una nota ya
// PROCESADA. Lo implementa NotesUseCase.
type OriginalVoider interface {
	VoidOriginal(ctx context.Context, note *entity.Invoice) error
}

// SyncUseCase conduce un documento por la máquina de transmisión: valida
// credenciales, construye y numera el DTE, lo firma vía el firmador remoto, lo
// transmite y persiste el desenlace.
//
// Es seguro invocarlo concurrentemente para facturas distintas; para la misma
// factura la exclusión mutua es del caller (no hay locking interno por id).
// Ningún paso reintenta: el caller decide.
type SyncUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository

	builder   *DocumentBuilder
	allocator *Allocator

	validator   CredentialValidator
	signer      Signer
	transmitter Transmitter
	gate        CreditGate
	renderer    ArchivalRenderer
	archiver    ArchivalUploader
	voider      OriginalVoider

	log     *logger.Logger
	credTTL time.Duration

	mu        sync.Mutex
	credCache map[string]time.Time // companyID -> vencimiento de la validación positiva
}

// SyncDeps dependencias del caso de uso de sincronización.
type SyncDeps struct {
	InvoiceRepo  repository.InvoiceRepository
	CompanyRepo  repository.CompanyRepository
	CustomerRepo repository.CustomerRepository
	Builder      *DocumentBuilder
	Allocator    *Allocator
	Validator    CredentialValidator
	Signer       Signer
	Transmitter  Transmitter
	Gate         CreditGate
	Renderer     ArchivalRenderer
	Archiver     ArchivalUploader
	Voider       OriginalVoider
	Log          *logger.Logger
	CredTTL      time.Duration
}

// NewSyncUseCase construye el caso de uso. Gate, Renderer, Archiver y Voider
// son opcionales (nil los desactiva).
func NewSyncUseCase(d SyncDeps) *SyncUseCase {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.CredTTL <= 0 {
		d.CredTTL = 10 * time.Minute
	}
	return &SyncUseCase{
		invoiceRepo:  d.InvoiceRepo,
		companyRepo:  d.CompanyRepo,
		customerRepo: d.CustomerRepo,
		builder:      d.Builder,
		allocator:    d.Allocator,
		validator:    d.Validator,
		signer:       d.Signer,
		transmitter:  d.Transmitter,
		gate:         d.Gate,
		renderer:     d.Renderer,
		archiver:     d.Archiver,
		voider:       d.Voider,
		log:          d.Log.Named("sync"),
		credTTL:      d.CredTTL,
		credCache:    make(map[string]time.Time),
	}
}

// Sync transmite la factura. Repetible mientras el estado sea NUEVO (la
// asignación de identificadores es idempotente); sobre una factura PROCESADA
// es un no-op local que reporta already_completed sin contactar a Hacienda.
func (s *SyncUseCase) Sync(ctx context.Context, invoiceID string) (*dto.SyncResponse, error) {
	return s.run(ctx, invoiceID, nil)
}

// SyncInContingency transmite la factura dentro de un evento de contingencia
// ya declarado: el documento se emite con tipoOperacion 2 y los datos del
// evento. El resto del flujo es idéntico a Sync.
func (s *SyncUseCase) SyncInContingency(ctx context.Context, invoiceID string, event *entity.ContingencyEvent) (*dto.SyncResponse, error) {
	return s.run(ctx, invoiceID, event)
}

func (s *SyncUseCase) run(ctx context.Context, invoiceID string, event *entity.ContingencyEvent) (*dto.SyncResponse, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}

	switch inv.Status {
	case entity.StatusCompleted:
		return &dto.SyncResponse{
			InvoiceID:        inv.ID,
			Status:           inv.Status,
			AlreadyCompleted: true,
			SelloRecibido:    inv.SelloRecibido,
		}, nil
	case entity.StatusVoided:
		return nil, fmt.Errorf("%w: el documento está anulado", domain.ErrConflict)
	case entity.StatusTransmitting:
		return nil, fmt.Errorf("%w: transmisión en curso", domain.ErrConflict)
	}

	company, err := s.companyRepo.GetByID(ctx, inv.CompanyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}
	customer, err := s.customerRepo.GetByID(ctx, inv.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}

	// Fail-fast local: sin credenciales no se contacta a Hacienda.
	if !company.HasCredentials() {
		return nil, domain.ErrCredentialsNotConfigured
	}
	creds := Credentials{NIT: pkgdte.OnlyDigits(company.NIT), Password: company.APIPassword, Ambiente: company.Ambiente}

	if s.gate != nil {
		allowed, err := s.gate.Allows(ctx, company.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: colaborador de créditos: %v", domain.ErrTransport, err)
		}
		if !allowed {
			return nil, domain.ErrInsufficientBalance
		}
	}

	if err := s.ensureCredentials(ctx, company, creds); err != nil {
		return nil, err
	}

	if _, _, err := s.allocator.Allocate(ctx, inv, company); err != nil {
		return nil, err
	}

	items, err := s.invoiceRepo.GetItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	var original *entity.Invoice
	if inv.IsNote() {
		original, err = s.fetchOriginal(ctx, inv)
		if err != nil {
			return nil, err
		}
	}

	doc, err := s.builder.Build(BuildInput{
		Invoice:     inv,
		Company:     company,
		Customer:    customer,
		Items:       items,
		Original:    original,
		Contingency: event,
	})
	if err != nil {
		// Error de validación local: nunca llega a la capa de red.
		return nil, err
	}

	machine := newTransmissionMachine(inv.Status)
	if err := machine.Fire(triggerTransmit); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	if err := s.persistStatus(ctx, inv, entity.StatusTransmitting); err != nil {
		return nil, err
	}

	signed, err := s.signer.Sign(ctx, creds.NIT, company.CertificateKey, doc)
	if err != nil {
		s.revert(ctx, machine, inv)
		return nil, fmt.Errorf("%w: %v", domain.ErrSigning, err)
	}

	result, err := s.transmitter.Transmit(ctx, signed, doc.Identificacion, creds)
	if err != nil {
		// Transporte (incluye timeout): recuperable, identificadores intactos.
		s.revert(ctx, machine, inv)
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	if result.Estado != pkgdte.EstadoProcesado {
		inv.Observaciones = strings.Join(result.Observaciones, "; ")
		s.revert(ctx, machine, inv)
		s.log.Warn().
			Str("invoice_id", inv.ID).
			Str("estado", result.Estado).
			Strs("observaciones", result.Observaciones).
			Msg("documento rechazado")
		return nil, classifyRejection(result)
	}

	if err := machine.Fire(triggerAccept); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	inv.SelloRecibido = result.SelloRecibido
	inv.Observaciones = ""
	if err := s.persistStatus(ctx, inv, entity.StatusCompleted); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("invoice_id", inv.ID).
		Str("numero_control", inv.NumeroControl).
		Str("sello", inv.SelloRecibido).
		Msg("documento procesado")

	// Una nota PROCESADA anula su documento original. La inconsistencia (el
	// original ya no existe localmente) no es fatal: la nota queda PROCESADA.
	if inv.IsNote() && s.voider != nil {
		if err := s.voider.VoidOriginal(ctx, inv); err != nil {
			s.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("no se pudo anular el original")
		}
	}

	s.archive(doc, company, customer, inv.NumeroControl)

	return &dto.SyncResponse{
		InvoiceID:     inv.ID,
		Status:        inv.Status,
		SelloRecibido: inv.SelloRecibido,
	}, nil
}

// fetchOriginal obtiene el documento original de una nota y refresca la
// referencia (el original pudo haberse numerado después de crear la nota).
// La nota no puede transmitirse hasta que el original tenga código de generación.
func (s *SyncUseCase) fetchOriginal(ctx context.Context, note *entity.Invoice) (*entity.Invoice, error) {
	if note.RelatedID == "" {
		return nil, domain.NewValidationError("documentoRelacionado")
	}
	original, err := s.invoiceRepo.GetByID(ctx, note.RelatedID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, domain.NewValidationError("documentoRelacionado: original no encontrado")
	}
	if original.CodigoGeneracion == "" {
		return nil, domain.NewValidationError("documentoRelacionado: el original aún no tiene código de generación")
	}
	if note.RelatedCodigoGeneracion != original.CodigoGeneracion {
		note.RelatedCodigoGeneracion = original.CodigoGeneracion
		note.RelatedTipoDte = original.TipoDte
		note.RelatedDate = original.Date
	}
	return original, nil
}

// ensureCredentials valida credenciales y certificado contra Hacienda una vez
// por ventana de caché; el resultado positivo se reutiliza para no validar en
// cada documento de una misma sesión.
func (s *SyncUseCase) ensureCredentials(ctx context.Context, company *entity.Company, creds Credentials) error {
	s.mu.Lock()
	expiry, ok := s.credCache[company.ID]
	s.mu.Unlock()
	if ok && time.Now().Before(expiry) {
		return nil
	}

	valid, err := s.validator.ValidateCredentials(ctx, creds)
	if err != nil {
		return fmt.Errorf("%w: validación de credenciales: %v", domain.ErrTransport, err)
	}
	if !valid {
		return domain.ErrCredentialsRejected
	}

	valid, err = s.validator.ValidateSigningCertificate(ctx, creds.NIT, company.CertificateKey)
	if err != nil {
		return fmt.Errorf("%w: validación de certificado: %v", domain.ErrTransport, err)
	}
	if !valid {
		return domain.ErrCertificateRejected
	}

	s.mu.Lock()
	s.credCache[company.ID] = time.Now().Add(s.credTTL)
	s.mu.Unlock()
	return nil
}

// revert regresa el documento a NUEVO tras un fallo recuperable, sin tocar los
// identificadores ya asignados (se reutilizan en el reintento).
func (s *SyncUseCase) revert(ctx context.Context, machine *stateless.StateMachine, inv *entity.Invoice) {
	if err := machine.Fire(triggerReject); err != nil {
		s.log.Error().Err(err).Str("invoice_id", inv.ID).Msg("transición rechazar ilegal")
	}
	if err := s.persistStatus(ctx, inv, entity.StatusNew); err != nil {
		s.log.Error().Err(err).Str("invoice_id", inv.ID).Msg("no se pudo persistir el regreso a NUEVO")
	}
}

func (s *SyncUseCase) persistStatus(ctx context.Context, inv *entity.Invoice, status string) error {
	inv.Status = status
	inv.UpdatedAt = time.Now()
	return s.invoiceRepo.Update(ctx, inv)
}

// classifyRejection separa el choque de numeración del rechazo de validación
// general; en ambos casos la lista de observaciones queda intacta.
func classifyRejection(result *TransmitResult) error {
	for _, o := range result.Observaciones {
		u := strings.ToUpper(o)
		if strings.Contains(u, "CONTROL") && (strings.Contains(u, "DUPLICADO") || strings.Contains(u, "REGISTRADO")) {
			return fmt.Errorf("%w: %s", domain.ErrNumberingConflict, o)
		}
	}
	return &domain.RejectionError{Estado: result.Estado, Observaciones: result.Observaciones}
}

// archive genera y respalda la representación gráfica en segundo plano. Los
// fallos se registran y jamás bloquean ni revierten la máquina de estados.
func (s *SyncUseCase) archive(doc *dte.Document, company *entity.Company, customer *entity.Customer, numeroControl string) {
	if s.renderer == nil || s.archiver == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		rendered, err := s.renderer.Render(doc, company, customer)
		if err != nil {
			s.log.Warn().Err(err).Str("numero_control", numeroControl).Msg("no se pudo generar la representación gráfica")
			return
		}
		if err := s.archiver.Upload(ctx, rendered, numeroControl); err != nil {
			s.log.Warn().Err(err).Str("numero_control", numeroControl).Msg("no se pudo respaldar la representación gráfica")
		}
	}()
}
