// Package main provides an offline CLI for running the arbitration pipeline
// over a session file: precedent matching, then verdict generation. Useful
// for replaying sessions and tuning thresholds without a server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"concord/internal/arbitration"
	"concord/internal/precedent"
	"concord/internal/transport/http/dto"
	"concord/internal/verdict"
	id "concord/pkg/domain"
)

type matchOutput struct {
	PrecedentID string  `json:"precedent_id"`
	Title       string  `json:"title,omitempty"`
	Score       float64 `json:"score"`
	Fallback    bool    `json:"fallback,omitempty"`
}

type output struct {
	Verdict  dto.Verdict   `json:"verdict"`
	Warnings []string      `json:"warnings,omitempty"`
	Matches  []matchOutput `json:"matches,omitempty"`
}

func main() {
	sessionPath := flag.String("session", "", "Path to a session JSON file (required)")
	issuer := flag.String("issuer", "arbit-cli", "Issuer identity recorded on the verdict")
	threshold := flag.Float64("threshold", 0, "Override similarity threshold (0 keeps the default)")
	flag.Parse()

	if *sessionPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	raw, err := os.ReadFile(*sessionPath)
	if err != nil {
		fatal("read session file: %v", err)
	}

	var wire dto.Session
	if err := json.Unmarshal(raw, &wire); err != nil {
		fatal("parse session file: %v", err)
	}
	session, err := dto.SessionFromDTO(wire)
	if err != nil {
		fatal("invalid session: %v", err)
	}

	ctx := context.Background()
	out := output{}

	if session.Violation != nil && len(session.Precedents) > 0 {
		cfg := precedent.DefaultConfig()
		if *threshold > 0 {
			cfg.SimilarityThreshold = *threshold
		}
		matcher := precedent.NewMatcher(cfg)
		matches, err := matcher.FindSimilar(ctx, queryContext(session), session.Precedents)
		if err != nil {
			fatal("precedent matching: %v", err)
		}
		// Only cite what actually cleared the threshold.
		session.Precedents = session.Precedents[:0]
		for _, m := range matches {
			session.Precedents = append(session.Precedents, m.Precedent)
			out.Matches = append(out.Matches, matchOutput{
				PrecedentID: m.Precedent.ID.String(),
				Title:       m.Precedent.Title,
				Score:       m.Score,
				Fallback:    m.Fallback,
			})
		}
	}

	svc := verdict.New(verdict.DefaultConfig())
	v, report, err := svc.Generate(ctx, session, *issuer)
	if err != nil {
		fatal("verdict generation: %v", err)
	}

	out.Verdict = dto.VerdictToDTO(v)
	out.Warnings = report.Warnings

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fatal("encode output: %v", err)
	}
}

// queryContext derives the matcher query from the session's violation.
func queryContext(session *arbitration.ArbitrationSession) precedent.Context {
	qc := precedent.Context{
		Description: session.Violation.Description,
		Severity:    session.Violation.Severity,
		Evidence:    session.Evidence,
		RuleIDs:     []id.RuleID{session.Violation.RuleID},
	}
	for _, rule := range session.Rules {
		if rule.ID == session.Violation.RuleID {
			qc.Category = rule.Category
			break
		}
	}
	return qc
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "arbit: "+format+"\n", args...)
	os.Exit(1)
}
