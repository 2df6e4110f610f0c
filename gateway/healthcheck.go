package gateway

import (
	"net/http"
	"strings"
)

/* Health probe fast-path
 * Load balancers, orchestrators and uptime monitors all poke the
 * gateway constantly; their traffic is classified so the audit trail
 * stays readable, and the literal health paths are answered without
 * touching the rest of the pipeline.
 */

// probeAgents are user-agent substrings of known infrastructure probes
var probeAgents = []string{
	"ELB-HealthChecker",
	"GoogleHC",
	"kube-probe",
	"UptimeRobot",
	"Pingdom",
	"StatusCake",
}

// healthPaths are answered immediately with a fixed body
var healthPaths = map[string]bool{
	"/health":  true,
	"/healthz": true,
}

// HealthCheckFilter classifies probe traffic and short-circuits the
// literal health endpoints
func HealthCheckFilter() Stage {
	return func(ex *Exchange) Result {
		agent := ex.Request.Header.Get("User-Agent")
		for _, probe := range probeAgents {
			if strings.Contains(agent, probe) {
				ex.HealthCheck = true
				break
			}
		}

		if healthPaths[ex.Request.URL.Path] {
			ex.HealthCheck = true
			return Halt(http.StatusOK, "text/plain", []byte("OK"))
		}

		return Continue()
	}
}
