package handler

import (
	"time"

	"concord/internal/arbitration"
	"concord/internal/platform/middleware"
	"concord/internal/transport/http/dto"
)

// AppealResponse is the wire shape of an appeal record.
type AppealResponse struct {
	ID          string               `json:"id"`
	SessionID   string               `json:"session_id"`
	VerdictID   string               `json:"verdict_id"`
	Appellant   string               `json:"appellant"`
	Grounds     string               `json:"grounds"`
	NewEvidence []string             `json:"new_evidence,omitempty"`
	Status      string               `json:"status"`
	Level       int                  `json:"level"`
	SubmittedAt time.Time            `json:"submitted_at"`
	Reviewers   []string             `json:"reviewers,omitempty"`
	ReviewedAt  *time.Time           `json:"reviewed_at,omitempty"`
	Metadata    arbitration.Metadata `json:"metadata,omitempty"`
}

// DecisionResponse is the wire shape of one review cycle's outcome.
type DecisionResponse struct {
	AppealID    string       `json:"appeal_id"`
	Outcome     string       `json:"outcome"`
	Replacement *dto.Verdict `json:"replacement,omitempty"`
	Reasoning   string       `json:"reasoning"`
	Reviewers   []string     `json:"reviewers"`
	DecidedAt   time.Time    `json:"decided_at"`
	Confidence  float64      `json:"confidence"`
}

func appealResponse(a *arbitration.Appeal) *AppealResponse {
	return &AppealResponse{
		ID:          a.ID.String(),
		SessionID:   a.SessionID.String(),
		VerdictID:   a.VerdictID.String(),
		Appellant:   a.Appellant,
		Grounds:     a.Grounds,
		NewEvidence: a.NewEvidence,
		Status:      string(a.Status),
		Level:       a.Level,
		SubmittedAt: a.SubmittedAt,
		Reviewers:   a.Reviewers,
		ReviewedAt:  a.ReviewedAt,
		Metadata:    a.Metadata,
	}
}

func decisionResponse(d *arbitration.AppealDecision) *DecisionResponse {
	res := &DecisionResponse{
		AppealID:   d.AppealID.String(),
		Outcome:    string(d.Outcome),
		Reasoning:  d.Reasoning,
		Reviewers:  d.Reviewers,
		DecidedAt:  d.DecidedAt,
		Confidence: d.Confidence,
	}
	if d.Replacement != nil {
		replacement := dto.VerdictToDTO(d.Replacement)
		res.Replacement = &replacement
	}
	return res
}

// clientRecord is the metadata shape stored for the submitting client.
type clientRecord struct {
	Browser        string `json:"browser,omitempty"`
	BrowserVersion string `json:"browser_version,omitempty"`
	OS             string `json:"os,omitempty"`
	Mobile         bool   `json:"mobile"`
	Bot            bool   `json:"bot"`
}

func newClientRecord(m middleware.ClientMetadata) clientRecord {
	return clientRecord{
		Browser:        m.Browser,
		BrowserVersion: m.BrowserVersion,
		OS:             m.OS,
		Mobile:         m.Mobile,
		Bot:            m.Bot,
	}
}
