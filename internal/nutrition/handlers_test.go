package nutrition

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitbite/server/internal/storage/memory"
	"github.com/fitbite/server/internal/userctx"
)

func newTestHandler() *Handler {
	store := memory.NewEmpty()
	return NewHandler(NewService(store.GetNutritionTargetsStorage()))
}

func authedRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(userctx.WithUserID(req.Context(), "user1"))
}

func TestHandleGetTargets_DefaultsWhenUnset(t *testing.T) {
	handler := newTestHandler()

	w := httptest.NewRecorder()
	handler.HandleGetTargets(w, authedRequest(http.MethodGet, "/v1/nutrition/targets", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp GetTargetsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.IsDefault {
		t.Error("expected is_default=true before targets are set")
	}
	if resp.Targets.CaloriesKcal != DefaultCaloriesKcal {
		t.Errorf("expected default calories %d, got %d", DefaultCaloriesKcal, resp.Targets.CaloriesKcal)
	}
}

func TestHandleUpsertTargets_RoundTrip(t *testing.T) {
	handler := newTestHandler()

	body, _ := json.Marshal(UpsertTargetsRequest{
		CaloriesKcal: 2400,
		ProteinG:     180,
		FatG:         80,
		CarbsG:       250,
	})

	w := httptest.NewRecorder()
	handler.HandleUpsertTargets(w, authedRequest(http.MethodPut, "/v1/nutrition/targets", body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	handler.HandleGetTargets(w, authedRequest(http.MethodGet, "/v1/nutrition/targets", nil))

	var resp GetTargetsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.IsDefault {
		t.Error("expected is_default=false after upsert")
	}
	if resp.Targets.ProteinG != 180 {
		t.Errorf("expected protein 180, got %d", resp.Targets.ProteinG)
	}
}

func TestHandleUpsertTargets_Validation(t *testing.T) {
	handler := newTestHandler()

	body, _ := json.Marshal(UpsertTargetsRequest{
		CaloriesKcal: 100, // below minimum
		ProteinG:     150,
		FatG:         70,
		CarbsG:       225,
	})

	w := httptest.NewRecorder()
	handler.HandleUpsertTargets(w, authedRequest(http.MethodPut, "/v1/nutrition/targets", body))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
