package dto

type CrearMeseraRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
	Codigo string `json:"codigo" validate:"required,min=4,max=10"`
}

type CambiarCodigoRequest struct {
	Codigo string `json:"codigo" validate:"required,min=4,max=10"`
}

type VerificarCodigoRequest struct {
	Codigo string `json:"codigo" validate:"required"`
}

type MeseraResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}
