package billing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facturasv/dte-api/internal/domain/dte"
	"github.com/facturasv/dte-api/internal/domain/entity"
	"github.com/facturasv/dte-api/internal/domain/repository"
	"github.com/facturasv/dte-api/pkg/logger"
	pkgdte "github.com/facturasv/dte-api/pkg/dte"
)

// ── repositorios en memoria ──────────────────────────────────────────────────
// Guardan y devuelven copias: los cambios solo se "persisten" vía Create/Update,
// igual que contra la base real.

type memInvoiceRepo struct {
	mu        sync.Mutex
	invoices  map[string]*entity.Invoice
	items     map[string][]*entity.InvoiceItem
	updateErr error
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{
		invoices: make(map[string]*entity.Invoice),
		items:    make(map[string][]*entity.InvoiceItem),
	}
}

func (m *memInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *inv
	m.invoices[inv.ID] = &cp
	return nil
}

func (m *memInvoiceRepo) CreateItem(_ context.Context, item *entity.InvoiceItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *item
	m.items[item.InvoiceID] = append(m.items[item.InvoiceID], &cp)
	return nil
}

func (m *memInvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	cp := *inv
	m.invoices[inv.ID] = &cp
	return nil
}

func (m *memInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (m *memInvoiceRepo) GetItems(_ context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.InvoiceItem, 0, len(m.items[invoiceID]))
	for _, it := range m.items[invoiceID] {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memInvoiceRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range m.invoices {
		if inv.CompanyID == companyID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memInvoiceRepo) MaxControlNumber(_ context.Context, companyID, tipoDte string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var max int64
	for _, inv := range m.invoices {
		if inv.CompanyID != companyID || inv.TipoDte != tipoDte || inv.NumeroControl == "" {
			continue
		}
		seq, err := pkgdte.ParseControlNumber(inv.NumeroControl)
		if err != nil {
			return 0, err
		}
		if seq > max {
			max = seq
		}
	}
	return max, nil
}

type memCompanyRepo struct {
	mu        sync.Mutex
	companies map[string]*entity.Company
}

func newMemCompanyRepo() *memCompanyRepo {
	return &memCompanyRepo{companies: make(map[string]*entity.Company)}
}

func (m *memCompanyRepo) Create(_ context.Context, c *entity.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.companies[c.ID] = &cp
	return nil
}

func (m *memCompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	return m.Create(ctx, c)
}

func (m *memCompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memCompanyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Company
	for _, c := range m.companies {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

type memCustomerRepo struct {
	mu        sync.Mutex
	customers map[string]*entity.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{customers: make(map[string]*entity.Customer)}
}

func (m *memCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.customers[c.ID] = &cp
	return nil
}

func (m *memCustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	return m.Create(ctx, c)
}

func (m *memCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memCustomerRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Customer
	for _, c := range m.customers {
		if c.CompanyID == companyID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memContingencyRepo struct {
	mu     sync.Mutex
	events map[string]*entity.ContingencyEvent
}

func newMemContingencyRepo() *memContingencyRepo {
	return &memContingencyRepo{events: make(map[string]*entity.ContingencyEvent)}
}

func (m *memContingencyRepo) Create(_ context.Context, e *entity.ContingencyEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.events[e.ID] = &cp
	return nil
}

func (m *memContingencyRepo) Update(ctx context.Context, e *entity.ContingencyEvent) error {
	return m.Create(ctx, e)
}

func (m *memContingencyRepo) GetByID(_ context.Context, id string) (*entity.ContingencyEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *memContingencyRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.ContingencyEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.ContingencyEvent
	for _, e := range m.events {
		if e.CompanyID == companyID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memTxRunner struct {
	invoiceRepo repository.InvoiceRepository
}

func (m *memTxRunner) RunBilling(ctx context.Context, fn func(repository.InvoiceRepository) error) error {
	return fn(m.invoiceRepo)
}

// ── colaboradores falsos ─────────────────────────────────────────────────────

type fakeValidator struct {
	credOK, certOK       bool
	credErr, certErr     error
	credCalls, certCalls int
}

func (f *fakeValidator) ValidateCredentials(_ context.Context, creds Credentials) (bool, error) {
	f.credCalls++
	return f.credOK, f.credErr
}

func (f *fakeValidator) ValidateSigningCertificate(_ context.Context, nit, certificateKey string) (bool, error) {
	f.certCalls++
	return f.certOK, f.certErr
}

type fakeSigner struct {
	err   error
	calls int
}

func (f *fakeSigner) Sign(_ context.Context, nit, certificateKey string, doc *dte.Document) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "jws." + doc.Identificacion.CodigoGeneracion, nil
}

// transmitStep un resultado programado por llamada.
type transmitStep struct {
	result *TransmitResult
	err    error
}

type fakeTransmitter struct {
	mu     sync.Mutex
	script []transmitStep
	calls  int
	idents []string // números de control recibidos, en orden
}

func (f *fakeTransmitter) Transmit(_ context.Context, signed string, ident dte.Identificacion, creds Credentials) (*TransmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.idents = append(f.idents, ident.NumeroControl)
	if len(f.script) > 0 {
		step := f.script[0]
		f.script = f.script[1:]
		if step.result != nil || step.err != nil {
			return step.result, step.err
		}
	}
	return &TransmitResult{
		Estado:           pkgdte.EstadoProcesado,
		SelloRecibido:    "SELLO" + ident.NumeroControl,
		CodigoGeneracion: ident.CodigoGeneracion,
	}, nil
}

type fakeDeclarer struct {
	sello   string
	err     error
	calls   int
	codigos []string
}

func (f *fakeDeclarer) Declare(_ context.Context, event *entity.ContingencyEvent, codigos []string, creds Credentials) (string, error) {
	f.calls++
	f.codigos = append([]string(nil), codigos...)
	if f.err != nil {
		return "", f.err
	}
	return f.sello, nil
}

type fakeGate struct {
	allowed bool
	err     error
	calls   int
}

func (f *fakeGate) Allows(_ context.Context, companyID string) (bool, error) {
	f.calls++
	return f.allowed, f.err
}

// ── armado del entorno de prueba ─────────────────────────────────────────────

type testEnv struct {
	invoiceRepo     *memInvoiceRepo
	companyRepo     *memCompanyRepo
	customerRepo    *memCustomerRepo
	contingencyRepo *memContingencyRepo

	validator   *fakeValidator
	signer      *fakeSigner
	transmitter *fakeTransmitter
	declarer    *fakeDeclarer

	company  *entity.Company
	customer *entity.Customer

	sync        *SyncUseCase
	notes       *NotesUseCase
	invoices    *InvoiceUseCase
	contingency *ContingencyUseCase
}

func newTestEnv() *testEnv {
	env := &testEnv{
		invoiceRepo:     newMemInvoiceRepo(),
		companyRepo:     newMemCompanyRepo(),
		customerRepo:    newMemCustomerRepo(),
		contingencyRepo: newMemContingencyRepo(),
		validator:       &fakeValidator{credOK: true, certOK: true},
		signer:          &fakeSigner{},
		transmitter:     &fakeTransmitter{},
		declarer:        &fakeDeclarer{sello: "SELLO-EVENTO"},
	}

	now := time.Now()
	env.company = &entity.Company{
		ID:             uuid.NewString(),
		Name:           "Comercial El Salvador, S.A. de C.V.",
		NIT:            "06142510871020",
		NRC:            "1234567",
		Actividad:      "62010",
		CodEstable:     "M001",
		Ambiente:       pkgdte.AmbientePruebas,
		APIPassword:    "secreta",
		CertificateKey: "clave-certificado",
		Address:        "San Salvador",
		Status:         "active",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	_ = env.companyRepo.Create(context.Background(), env.company)

	env.customer = &entity.Customer{
		ID:        uuid.NewString(),
		CompanyID: env.company.ID,
		Name:      "Cliente de Prueba",
		NIT:       "06142510871021",
		NRC:       "7654321",
		DUI:       "012345678",
		Address:   "Santa Tecla",
		CreatedAt: now,
		UpdatedAt: now,
	}
	_ = env.customerRepo.Create(context.Background(), env.customer)

	builder := NewDocumentBuilder()
	allocator := NewAllocator(env.invoiceRepo)
	tx := &memTxRunner{invoiceRepo: env.invoiceRepo}
	log := logger.Nop()

	env.notes = NewNotesUseCase(env.invoiceRepo, env.customerRepo, tx, log)
	env.invoices = NewInvoiceUseCase(env.invoiceRepo, env.customerRepo, tx, log)
	env.sync = NewSyncUseCase(SyncDeps{
		InvoiceRepo:  env.invoiceRepo,
		CompanyRepo:  env.companyRepo,
		CustomerRepo: env.customerRepo,
		Builder:      builder,
		Allocator:    allocator,
		Validator:    env.validator,
		Signer:       env.signer,
		Transmitter:  env.transmitter,
		Voider:       env.notes,
		Log:          log,
	})
	env.contingency = NewContingencyUseCase(
		env.invoiceRepo, env.companyRepo, env.contingencyRepo,
		allocator, env.declarer, env.sync, log, time.Millisecond,
	)
	return env
}

// seedInvoice crea y persiste una factura NUEVA con una línea de 2 × $10.00 y
// otra de 1 × $20.00 (total $40.00).
func (env *testEnv) seedInvoice(tipoDte string) *entity.Invoice {
	now := time.Now()
	inv := &entity.Invoice{
		ID:         uuid.NewString(),
		CompanyID:  env.company.ID,
		CustomerID: env.customer.ID,
		TipoDte:    tipoDte,
		Number:     "F-001",
		Date:       now,
		Status:     entity.StatusNew,
		NetTotal:   decimal.RequireFromString("35.40"),
		TaxTotal:   decimal.RequireFromString("4.60"),
		GrandTotal: decimal.RequireFromString("40.00"),
		TotalPagar: decimal.RequireFromString("40.00"),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	ctx := context.Background()
	if err := env.invoiceRepo.Create(ctx, inv); err != nil {
		panic(err)
	}
	for _, it := range []struct {
		desc string
		qty  string
		unit string
	}{
		{"Producto A", "2", "10.00"},
		{"Producto B", "1", "20.00"},
	} {
		item := &entity.InvoiceItem{
			ID:          uuid.NewString(),
			InvoiceID:   inv.ID,
			Description: it.desc,
			Quantity:    decimal.RequireFromString(it.qty),
			UnitPrice:   decimal.RequireFromString(it.unit),
			LineTotal:   decimal.RequireFromString(it.qty).Mul(decimal.RequireFromString(it.unit)).Round(2),
		}
		if err := env.invoiceRepo.CreateItem(ctx, item); err != nil {
			panic(err)
		}
	}
	return inv
}
