package observability

import (
	"context"
	"testing"

	"github.com/w2wlabs/what2watch/internal/config"
	"github.com/w2wlabs/what2watch/internal/platform/logging"
)

func TestInitUptrace_DisabledPaths(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Config
	}{
		{
			name: "flag off",
			cfg: config.Config{
				UptraceEnabled: false,
				ServiceName:    "what2watch-api",
				ServiceVersion: "dev",
				AppEnv:         config.EnvDev,
			},
		},
		{
			name: "blank dsn",
			cfg: config.Config{
				UptraceEnabled: true,
				UptraceDSN:     "   ",
				ServiceName:    "what2watch-api",
				ServiceVersion: "dev",
				AppEnv:         config.EnvDev,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			shutdown, err := InitUptrace(tc.cfg, logging.NewNop())
			if err != nil {
				t.Fatalf("init uptrace: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown uptrace: %v", err)
			}
		})
	}
}
