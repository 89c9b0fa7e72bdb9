package handler

import (
	"net/http"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/apierror"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// TotalesPorActor lists per-actor sales for one day (?fecha=YYYY-MM-DD,
// empty = all time). Actors without sales appear with a zero total.
func (h *ReportesHandler) TotalesPorActor(c *gin.Context) {
	fecha := c.Query("fecha")
	resp, err := h.svc.TotalesPorActor(c.Request.Context(), fecha)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar reporte"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) VentasDiarias(c *gin.Context) {
	resp, err := h.svc.VentasDiarias(c.Request.Context(), c.Query("desde"), c.Query("hasta"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar reporte"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
