package dto

type CrearMesaRequest struct {
	Numero    string `json:"numero"    validate:"required,min=1,max=10"`
	Capacidad int    `json:"capacidad" validate:"min=1"`
}

type ActualizarMesaRequest struct {
	Numero    *string `json:"numero"    validate:"omitempty,min=1,max=10"`
	Capacidad *int    `json:"capacidad" validate:"omitempty,min=1"`
	Estado    *string `json:"estado"    validate:"omitempty,oneof=disponible ocupada"`
}

type MesaResponse struct {
	ID        string `json:"id"`
	Numero    string `json:"numero"`
	Capacidad int    `json:"capacidad"`
	Estado    string `json:"estado"`
}
