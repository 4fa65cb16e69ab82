package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"budgetbook/internal/backend"
	"budgetbook/internal/config"
	"budgetbook/internal/log"
	"budgetbook/internal/storage/memory"
)

type stubFactory struct {
	cleaned bool
}

func (f *stubFactory) CreateBackend(context.Context, backend.Config) (*backend.BackendResult, error) {
	return &backend.BackendResult{
		Repository: memory.New(),
		Cleanup: func() error {
			f.cleaned = true
			return nil
		},
	}, nil
}

func testConfig(port string) *config.Config {
	return &config.Config{
		Port:            port,
		DataBackend:     config.BackendMemory,
		RateLimitRPS:    10,
		RateLimitBurst:  20,
		ShutdownTimeout: time.Second,
		Timezone:        "UTC",
	}
}

func TestRunCleansUpWhenListenFails(t *testing.T) {
	factory := &stubFactory{}
	logger := log.New(log.Config{Output: &bytes.Buffer{}})

	err := run(context.Background(), testConfig("99999"), logger, factory)
	if err == nil {
		t.Fatal("expected listen error for an invalid port")
	}
	if !factory.cleaned {
		t.Fatal("backend cleanup must run on an error exit")
	}
}

func TestRunCleansUpOnShutdown(t *testing.T) {
	factory := &stubFactory{}
	logger := log.New(log.Config{Output: &bytes.Buffer{}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := run(ctx, testConfig("0"), logger, factory); err != nil {
		t.Fatalf("run after cancel: %v", err)
	}
	if !factory.cleaned {
		t.Fatal("backend cleanup must run on shutdown")
	}
}
