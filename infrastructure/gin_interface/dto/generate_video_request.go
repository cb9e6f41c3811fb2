package dto

type GenerateVideoRequest struct {
	Topic string `json:"topic" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
