// Package config assembles the engine's runtime configuration from the
// environment. The surface is numeric thresholds and toggles only; component
// packages own their defaults and this layer overrides them.
package config

import (
	"os"
	"strconv"
	"time"

	"concord/internal/appeal"
	"concord/internal/precedent"
	"concord/internal/verdict"
	"concord/internal/waiver"
)

// Server captures process-level configuration.
type Server struct {
	Addr            string
	JWTSigningKey   string
	RequestTimeout  time.Duration
	CleanupInterval time.Duration

	Verdict   verdict.Config
	Precedent precedent.Config
	Waiver    waiver.Config
	Appeal    appeal.Config
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:            envString("ARBITER_ADDR", ":8080"),
		JWTSigningKey:   envString("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		RequestTimeout:  envDuration("REQUEST_TIMEOUT", 30*time.Second),
		CleanupInterval: envDuration("WAIVER_CLEANUP_INTERVAL", 15*time.Minute),

		Verdict:   verdict.DefaultConfig(),
		Precedent: precedent.DefaultConfig(),
		Waiver:    waiver.DefaultConfig(),
		Appeal:    appeal.DefaultConfig(),
	}

	cfg.Verdict.MinConfidenceForApproval = envFloat("MIN_CONFIDENCE_FOR_APPROVAL", cfg.Verdict.MinConfidenceForApproval)
	cfg.Verdict.MinEvidenceForApproval = envInt("MIN_EVIDENCE_FOR_APPROVAL", cfg.Verdict.MinEvidenceForApproval)
	cfg.Verdict.RequirePrecedents = envBool("REQUIRE_PRECEDENTS", cfg.Verdict.RequirePrecedents)
	cfg.Verdict.EnableConditionalVerdicts = envBool("ENABLE_CONDITIONAL_VERDICTS", cfg.Verdict.EnableConditionalVerdicts)
	cfg.Verdict.SoftTimeBudget = envDuration("VERDICT_SOFT_TIME_BUDGET", cfg.Verdict.SoftTimeBudget)

	cfg.Precedent.SimilarityThreshold = envFloat("SIMILARITY_THRESHOLD", cfg.Precedent.SimilarityThreshold)
	cfg.Precedent.MaxResults = envInt("MAX_PRECEDENT_RESULTS", cfg.Precedent.MaxResults)
	cfg.Precedent.MaxConcurrency = envInt("PRECEDENT_MAX_CONCURRENCY", cfg.Precedent.MaxConcurrency)

	cfg.Waiver.DefaultDuration = envDuration("WAIVER_DEFAULT_DURATION", cfg.Waiver.DefaultDuration)
	cfg.Waiver.MaxDuration = envDuration("WAIVER_MAX_DURATION", cfg.Waiver.MaxDuration)
	cfg.Waiver.MinEvidenceItems = envInt("WAIVER_MIN_EVIDENCE", cfg.Waiver.MinEvidenceItems)
	cfg.Waiver.AllowConditionalWaivers = envBool("ALLOW_CONDITIONAL_WAIVERS", cfg.Waiver.AllowConditionalWaivers)
	cfg.Waiver.AutoRevokeOnExpiry = envBool("AUTO_REVOKE_ON_EXPIRY", cfg.Waiver.AutoRevokeOnExpiry)

	cfg.Appeal.MaxAppealLevels = envInt("MAX_APPEAL_LEVELS", cfg.Appeal.MaxAppealLevels)
	cfg.Appeal.MinEvidenceForAppeal = envInt("MIN_EVIDENCE_FOR_APPEAL", cfg.Appeal.MinEvidenceForAppeal)
	cfg.Appeal.RequireUnanimous = envBool("REQUIRE_UNANIMOUS_OVERTURN", cfg.Appeal.RequireUnanimous)

	return cfg
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true"
	}
	return fallback
}
