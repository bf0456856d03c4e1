package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/facturasv/dte-api/internal/application/billing"
	"github.com/facturasv/dte-api/internal/application/dto"
	"github.com/facturasv/dte-api/internal/domain/entity"
)

// ContingencyHandler maneja la declaración de contingencia y el reenvío del
// lote (protegido).
type ContingencyHandler struct {
	uc *billing.ContingencyUseCase
}

// NewContingencyHandler construye el handler.
func NewContingencyHandler(uc *billing.ContingencyUseCase) *ContingencyHandler {
	return &ContingencyHandler{uc: uc}
}

func toContingencyResponse(ev *entity.ContingencyEvent) dto.ContingencyEventResponse {
	return dto.ContingencyEventResponse{
		ID:                ev.ID,
		CompanyID:         ev.CompanyID,
		Start:             ev.Start.Format(time.RFC3339),
		End:               ev.End.Format(time.RFC3339),
		Tipo:              ev.Tipo,
		Reason:            ev.Reason,
		ResponsableNombre: ev.ResponsableNombre,
		ResponsableDUI:    ev.ResponsableDUI,
		CodigoGeneracion:  ev.CodigoGeneracion,
		SelloRecibido:     ev.SelloRecibido,
		Declared:          ev.Declared,
		Succeeded:         ev.Succeeded,
		Failed:            ev.Failed,
		Total:             ev.Total,
	}
}

// Submit godoc
// @Summary      Declarar contingencia y reenviar el lote
// @Description  Declara el evento ante Hacienda y reenvía cada documento del
// @Description  lote de forma secuencial. La respuesta incluye los contadores
// @Description  de éxito y fallo; los documentos fallidos quedan en NUEVO.
// @Tags         contingency
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitContingencyRequest  true  "Ventana, motivo, responsable y documentos"
// @Success      200   {object}  dto.ContingencyOutcomeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/contingency [post]
func (h *ContingencyHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitContingencyRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Submit(c.Context(), GetCompanyID(c), in, nil)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener evento de contingencia por ID
// @Tags         contingency
// @Produce      json
// @Param        id   path  string  true  "ID del evento"
// @Success      200  {object}  dto.ContingencyEventResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contingency/{id} [get]
func (h *ContingencyHandler) GetByID(c *fiber.Ctx) error {
	ev, err := h.uc.Get(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toContingencyResponse(ev))
}

// List godoc
// @Summary      Listar eventos de contingencia
// @Tags         contingency
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.ContingencyEventResponse
// @Router       /api/contingency [get]
func (h *ContingencyHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), GetCompanyID(c), page)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ContingencyEventResponse, 0, len(list))
	for _, ev := range list {
		out = append(out, toContingencyResponse(ev))
	}
	return c.JSON(out)
}
