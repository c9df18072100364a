//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"
)

func getHealth(t *testing.T, path string) healthResponse {
	t.Helper()

	resp := doGet(t, path)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: expected 200, got %d", path, resp.StatusCode)
	}

	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	return body
}

func TestLivez(t *testing.T) {
	body := getHealth(t, "/livez")
	if body.Status != "ok" {
		t.Fatalf("liveness status: got %q, want ok (checks: %v)", body.Status, body.Checks)
	}
}

func TestReadyz(t *testing.T) {
	body := getHealth(t, "/readyz")
	if body.Status != "ok" {
		t.Fatalf("readiness status: got %q, want ok (checks: %v)", body.Status, body.Checks)
	}
}
