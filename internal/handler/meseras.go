package handler

import (
	"net/http"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/apierror"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/dto"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MeserasHandler struct{ svc service.MeseraService }

func NewMeserasHandler(svc service.MeseraService) *MeserasHandler {
	return &MeserasHandler{svc: svc}
}

func (h *MeserasHandler) Crear(c *gin.Context) {
	var req dto.CrearMeseraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MeserasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar meseras"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MeserasHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MeserasHandler) CambiarCodigo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CambiarCodigoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.CambiarCodigo(c.Request.Context(), id, req.Codigo); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// VerificarCodigo identifies a mesera by her PIN. The response reveals the
// mesera only on a match; anything else is a plain 401.
func (h *MeserasHandler) VerificarCodigo(c *gin.Context) {
	var req dto.VerificarCodigoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.VerificarCodigo(c.Request.Context(), req.Codigo)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
