package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ringhub/voice-gateway/audit"
	auditfile "github.com/ringhub/voice-gateway/audit/file"
	auditredis "github.com/ringhub/voice-gateway/audit/redis"
	"github.com/ringhub/voice-gateway/config"
)

/* logtool - analyze one day of the webhook audit trail
 * Usage: logtool [day]
 * The day defaults to today (UTC), formatted 2006-01-02.
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}

	day := time.Now().UTC().Format(audit.DayFormat)
	if len(os.Args) > 1 {
		day = os.Args[1]
	}
	if _, err := time.Parse(audit.DayFormat, day); err != nil {
		fmt.Fprintf(os.Stderr, "invalid day %q, expected %s\n", day, audit.DayFormat)
		os.Exit(1)
	}

	ctx := context.Background()
	sink, err := newSink(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer sink.Close(ctx)

	report, err := audit.NewAnalyzer(sink).Analyze(ctx, day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyzing %s: %v\n", day, err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(out))
}

func newSink(cfg *config.Config) (audit.Sink, error) {
	switch cfg.AuditSink {
	case "redis":
		return auditredis.NewStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return auditfile.NewStore(cfg.LogDir)
	}
}
