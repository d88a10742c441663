package handler

import "concord/internal/transport/http/dto"

// GenerateResponse returns the issued verdict plus generation diagnostics.
// Digest is the content hash of the verdict's immutable fields; callers can
// recompute it later to detect tampering.
type GenerateResponse struct {
	Verdict   dto.Verdict `json:"verdict"`
	Digest    string      `json:"digest,omitempty"`
	ElapsedMS int64       `json:"elapsed_ms"`
	Warnings  []string    `json:"warnings,omitempty"`
}
