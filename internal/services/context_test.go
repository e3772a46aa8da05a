package services_test

import (
	"context"
	"testing"

	"github.com/solosoyfranco/LibrAIry/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-42")
	ctx = services.WithFlow(ctx, "dedupe")
	ctx = services.WithMode(ctx, "simulate")
	ctx = services.WithItem(ctx, "/inbox/report.pdf")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-42" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if flow, ok := services.FlowFromContext(ctx); !ok || flow != "dedupe" {
		t.Fatalf("unexpected flow: %v %v", flow, ok)
	}
	if mode, ok := services.ModeFromContext(ctx); !ok || mode != "simulate" {
		t.Fatalf("unexpected mode: %v %v", mode, ok)
	}
	if item, ok := services.ItemFromContext(ctx); !ok || item != "/inbox/report.pdf" {
		t.Fatalf("unexpected item: %v %v", item, ok)
	}
}

func TestFlowBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithFlow(ctx, "")
	if _, ok := services.FlowFromContext(ctx); ok {
		t.Fatal("expected no flow value")
	}
}
