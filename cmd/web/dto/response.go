package dto

// ErrorResponseDTO는 공통 에러 응답 형식을 통일하기 위한 DTO이다.
type ErrorResponseDTO struct {
	Error string `json:"error" example:"invalid_cursor"`
}

// MessageResponseDTO는 단순 메시지 응답 형식을 통일하기 위한 DTO이다.
type MessageResponseDTO struct {
	Message string `json:"message" example:"rebuild requested"`
}

type RebuildAcceptedDTO struct {
	ID      string `json:"id" example:"6f1c7a52-4d0e-4f7b-9a53-4b7e0d3b9a1e"`
	Message string `json:"message" example:"rebuild requested"`
}

type HealthDTO struct {
	Status         string `json:"status" example:"ok"`
	ContentService string `json:"content_service,omitempty" example:"down"`
	Error          string `json:"error,omitempty"`
}
