package handler

import (
	"concord/internal/arbitration"
	"concord/internal/transport/http/dto"
)

// ProcessRequest carries the waiver request and the rule it targets. Rules
// live in the external rule engine, so the orchestrator posts the rule by
// value alongside the request.
type ProcessRequest struct {
	Request dto.WaiverRequest `json:"request"`
	Rule    dto.Rule          `json:"rule"`
}

// RevokeRequest carries the reason for an early revocation.
type RevokeRequest struct {
	Reason string `json:"reason"`
}

// ExtendRequest lengthens an active waiver by the given duration.
type ExtendRequest struct {
	ExtendBy string `json:"extend_by"`
}

func (req *ProcessRequest) toDomain() (*arbitration.WaiverRequest, *arbitration.ConstitutionalRule, error) {
	waiverReq, err := dto.WaiverRequestFromDTO(req.Request)
	if err != nil {
		return nil, nil, err
	}
	rule, err := dto.RuleFromDTO(req.Rule)
	if err != nil {
		return nil, nil, err
	}
	return waiverReq, &rule, nil
}
