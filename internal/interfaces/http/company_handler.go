package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturasv/dte-api/internal/application/billing"
	"github.com/facturasv/dte-api/internal/application/dto"
	"github.com/facturasv/dte-api/internal/domain/entity"
)

// CompanyHandler maneja las peticiones HTTP del emisor (empresa).
type CompanyHandler struct {
	uc *billing.CompanyUseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *billing.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

func toCompanyResponse(co *entity.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:             co.ID,
		Name:           co.Name,
		NIT:            co.NIT,
		NRC:            co.NRC,
		Actividad:      co.Actividad,
		CodEstable:     co.CodEstable,
		Ambiente:       co.Ambiente,
		Address:        co.Address,
		Phone:          co.Phone,
		Email:          co.Email,
		Status:         co.Status,
		HasCredentials: co.HasCredentials(),
	}
}

// Create godoc
// @Summary      Crear empresa emisora
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if !parseBody(c, &in) {
		return nil
	}
	co, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCompanyResponse(co))
}

// Get godoc
// @Summary      Obtener la empresa del token
// @Tags         companies
// @Produce      json
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/company [get]
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	co, err := h.uc.Get(c.Context(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCompanyResponse(co))
}

// SetCredentials godoc
// @Summary      Configurar credenciales de Hacienda y material de firma
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetCredentialsRequest  true  "api_password, certificate_key"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/company/credentials [put]
func (h *CompanyHandler) SetCredentials(c *fiber.Ctx) error {
	var in dto.SetCredentialsRequest
	if !parseBody(c, &in) {
		return nil
	}
	if err := h.uc.SetCredentials(c.Context(), GetCompanyID(c), in.APIPassword, in.CertificateKey); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
