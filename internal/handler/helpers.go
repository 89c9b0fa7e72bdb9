package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/apierror"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeServiceError maps the service error taxonomy onto HTTP statuses so
// every handler reports the same error the same way.
func writeServiceError(c *gin.Context, err error) {
	var activo *service.PedidoActivoError
	switch {
	case errors.As(err, &activo):
		c.JSON(http.StatusConflict, apierror.NewConflict(err.Error(), activo.PedidoID))
	case errors.Is(err, service.ErrPayloadInvalido),
		errors.Is(err, service.ErrStockInsuficiente),
		errors.Is(err, service.ErrEstadoTerminal):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrProductoNoEncontrado),
		errors.Is(err, service.ErrPedidoNoEncontrado),
		errors.Is(err, service.ErrLineaNoEncontrada),
		errors.Is(err, service.ErrMesaNoEncontrada),
		errors.Is(err, service.ErrMeseraNoEncontrada),
		errors.Is(err, service.ErrUsuarioNoEncontrado),
		errors.Is(err, service.ErrSinPedidoActivo),
		errors.Is(err, service.ErrNadaQueEliminar):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCredencialesInvalidas):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
