package config

import "testing"

func TestParseOTLPEndpoint(t *testing.T) {
	tests := []struct {
		raw      string
		hostport string
		path     string
		insecure bool
		wantErr  bool
	}{
		{raw: "http://collector:4318", hostport: "collector:4318", path: "/v1/traces", insecure: true},
		{raw: "https://otel.example.com/custom", hostport: "otel.example.com", path: "/custom", insecure: false},
		{raw: "collector:4318", hostport: "collector:4318", path: "/v1/traces", insecure: true},
		{raw: "collector:4318/v1/traces", wantErr: true},
		{raw: "grpc://collector:4317", wantErr: true},
		{raw: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			hostport, path, insecure, err := parseOTLPEndpoint(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if hostport != tt.hostport || path != tt.path || insecure != tt.insecure {
				t.Fatalf("got (%q, %q, %v), want (%q, %q, %v)", hostport, path, insecure, tt.hostport, tt.path, tt.insecure)
			}
		})
	}
}

func TestSamplerRatio(t *testing.T) {
	cases := map[string]float64{"": 1, "0.25": 0.25, "0": 0, "2": 1, "abc": 1}

	for raw, want := range cases {
		if got := samplerRatio(raw); got != want {
			t.Fatalf("samplerRatio(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestTracingConfig_RouterServiceName(t *testing.T) {
	var nilCfg *TracingConfig
	if got := nilCfg.RouterServiceName(); got != "" {
		t.Fatalf("nil config reported %q", got)
	}

	cfg := &TracingConfig{ServiceName: "swipefolio-landing-api"}
	if got := cfg.RouterServiceName(); got != "" {
		t.Fatalf("disabled tracing reported %q", got)
	}

	cfg.Enabled = true
	if got := cfg.RouterServiceName(); got != "swipefolio-landing-api" {
		t.Fatalf("RouterServiceName() = %q", got)
	}
}

func TestSetupTracing_DisabledIsNoop(t *testing.T) {
	shutdown, err := SetupTracing(nil, &TracingConfig{Endpoint: "not a url"})
	if err != nil || shutdown != nil {
		t.Fatalf("disabled tracing should do nothing, got (%v, %v)", shutdown != nil, err)
	}
}
