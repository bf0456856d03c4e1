package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturasv/dte-api/internal/application/billing"
	"github.com/facturasv/dte-api/internal/application/dto"
)

// NoteHandler maneja las notas de crédito y débito (protegido).
type NoteHandler struct {
	uc *billing.NotesUseCase
}

// NewNoteHandler construye el handler.
func NewNoteHandler(uc *billing.NotesUseCase) *NoteHandler {
	return &NoteHandler{uc: uc}
}

// Create godoc
// @Summary      Crear nota de crédito o débito sobre un documento original
// @Description  La nota nace en borrador con las líneas copiadas del original;
// @Description  al transmitirse con éxito una nota de crédito, el original queda anulado.
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateNoteRequest  true  "original_id y tipo_dte (05 o 06)"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/notes [post]
func (h *NoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateNoteRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.CreateNote(c.Context(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
