package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	ContractorsOnboarded prometheus.Counter

	// Verification metrics
	VerificationsCreated   *prometheus.CounterVec
	VerificationsCompleted *prometheus.CounterVec

	// Credential metrics
	CredentialsIssued  *prometheus.CounterVec
	CredentialsReused  prometheus.Counter
	CredentialsRevoked prometheus.Counter
	VerifyVerdicts     *prometheus.CounterVec
	IssuanceRejected   prometheus.Counter

	EndpointLatency *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		ContractorsOnboarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passport_contractors_onboarded_total",
			Help: "Total number of contractors onboarded",
		}),
		VerificationsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "passport_verifications_created_total",
			Help: "Total number of verification records created, labeled by type",
		}, []string{"type"}),
		VerificationsCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "passport_verifications_completed_total",
			Help: "Total number of verifications completed, labeled by type and outcome",
		}, []string{"type", "status"}),
		CredentialsIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "passport_credentials_issued_total",
			Help: "Total number of credentials issued, labeled by tier",
		}, []string{"tier"}),
		CredentialsReused: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passport_credentials_reused_total",
			Help: "Total number of issuance calls short-circuited to an existing valid credential",
		}),
		CredentialsRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passport_credentials_revoked_total",
			Help: "Total number of credentials revoked",
		}),
		VerifyVerdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "passport_credential_verify_verdicts_total",
			Help: "Total number of credential verification verdicts, labeled by outcome",
		}, []string{"verdict"}),
		IssuanceRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passport_credential_issuance_rejected_total",
			Help: "Total number of issuance attempts rejected as not eligible",
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "passport_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}
