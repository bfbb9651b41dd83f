package controllers

import (
	"aresclub/aresclub/utils/apperrors"
	"context"
	"errors"
	"testing"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	hc := NewHealthController(fakePinger{})
	res, err := hc.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != "healthy" || res.Database != "connected" {
		t.Errorf("expected healthy/connected, got %s/%s", res.Status, res.Database)
	}
}

func TestHealthCheckStoreDown(t *testing.T) {
	hc := NewHealthController(fakePinger{err: errors.New("connection refused")})
	_, err := hc.HealthCheck(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := apperrors.KindOf(err); got != apperrors.KindTransientStore {
		t.Errorf("expected kind %s, got %s", apperrors.KindTransientStore, got)
	}
}

func TestRoot(t *testing.T) {
	if got := NewHealthController(fakePinger{}).Root().Status; got != "active" {
		t.Errorf("expected status active, got %q", got)
	}
}
