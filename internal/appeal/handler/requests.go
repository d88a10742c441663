package handler

import (
	"concord/internal/arbitration"
	"concord/internal/transport/http/dto"
)

// SubmitRequest files an appeal. The session and original verdict travel by
// value; appeal state is the only thing the core persists.
type SubmitRequest struct {
	Session         dto.Session          `json:"session"`
	OriginalVerdict dto.Verdict          `json:"original_verdict"`
	Grounds         string               `json:"grounds"`
	NewEvidence     []string             `json:"new_evidence,omitempty"`
	Metadata        arbitration.Metadata `json:"metadata,omitempty"`
}

// ReviewRequest runs a review cycle with the named reviewers.
type ReviewRequest struct {
	Reviewers       []string    `json:"reviewers"`
	OriginalVerdict dto.Verdict `json:"original_verdict"`
}

// EscalateRequest bumps an appeal to the next review level.
type EscalateRequest struct {
	Reason string `json:"reason"`
}

func (req *SubmitRequest) toDomain() (*arbitration.ArbitrationSession, *arbitration.Verdict, error) {
	session, err := dto.SessionFromDTO(req.Session)
	if err != nil {
		return nil, nil, err
	}
	verdict, err := dto.VerdictFromDTO(req.OriginalVerdict)
	if err != nil {
		return nil, nil, err
	}
	return session, verdict, nil
}
