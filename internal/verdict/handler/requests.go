package handler

import "concord/internal/transport/http/dto"

// GenerateRequest carries an assembled arbitration session for adjudication.
type GenerateRequest struct {
	Session dto.Session `json:"session"`
}
