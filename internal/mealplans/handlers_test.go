package mealplans

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitbite/server/internal/userctx"
)

func newTestHandler() (*Handler, *mockPlanStore) {
	store := &mockPlanStore{}
	service := NewService(store, &mockCatalog{})
	return NewHandler(service, 20, 100), store
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

func TestHandleCreate_Success(t *testing.T) {
	handler, _ := newTestHandler()

	body, _ := json.Marshal(CreateMealPlanRequest{
		Name: "Monday plan",
		Foods: SlotFoods{
			Breakfast: []LineItemInput{{FoodID: 2, QuantityG: ptr(80)}},
			Lunch:     []LineItemInput{{FoodID: 1, QuantityG: ptr(150)}},
		},
	})

	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(http.MethodPost, "/v1/meals", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var plan MealPlanDTO
	if err := json.NewDecoder(w.Body).Decode(&plan); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if plan.ID == "" {
		t.Error("expected plan id in response")
	}
	if plan.Name != "Monday plan" {
		t.Errorf("expected name 'Monday plan', got %q", plan.Name)
	}
}

func TestHandleCreate_ValidationError(t *testing.T) {
	handler, store := newTestHandler()

	body, _ := json.Marshal(CreateMealPlanRequest{
		Name: "",
		Foods: SlotFoods{
			Lunch: []LineItemInput{{FoodID: 1, QuantityG: ptr(150)}},
		},
	})

	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(http.MethodPost, "/v1/meals", body))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	if store.createCalls != 0 {
		t.Errorf("expected zero store calls, got %d", store.createCalls)
	}
}

func TestHandleCreate_UnknownFood(t *testing.T) {
	handler, _ := newTestHandler()

	body, _ := json.Marshal(CreateMealPlanRequest{
		Name: "Ghost food",
		Foods: SlotFoods{
			Dinner: []LineItemInput{{FoodID: 9999, QuantityG: ptr(100)}},
		},
	})

	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(http.MethodPost, "/v1/meals", body))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("9999")) {
		t.Errorf("expected response to name the missing id: %s", w.Body.String())
	}
}

func TestHandleCreate_InvalidJSON(t *testing.T) {
	handler, _ := newTestHandler()

	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(http.MethodPost, "/v1/meals", []byte("{not json")))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestHandleCreate_MissingUser(t *testing.T) {
	handler, _ := newTestHandler()

	body, _ := json.Marshal(CreateMealPlanRequest{Name: "No auth"})
	req := httptest.NewRequest(http.MethodPost, "/v1/meals", bytes.NewReader(body))

	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestHandleGet_NotFound(t *testing.T) {
	handler, _ := newTestHandler()

	req := authedRequest(http.MethodGet, "/v1/meals/nope", nil)
	req.SetPathValue("id", "nope")

	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestHandleGet_FullDetail(t *testing.T) {
	handler, _ := newTestHandler()

	body, _ := json.Marshal(CreateMealPlanRequest{
		Name: "Detail plan",
		Foods: SlotFoods{
			Lunch: []LineItemInput{{FoodID: 1, QuantityG: ptr(150)}},
		},
	})
	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(http.MethodPost, "/v1/meals", body))
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", w.Code)
	}
	var plan MealPlanDTO
	json.NewDecoder(w.Body).Decode(&plan)

	req := authedRequest(http.MethodGet, "/v1/meals/"+plan.ID, nil)
	req.SetPathValue("id", plan.ID)

	w = httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var detail MealPlanDetailResponse
	if err := json.NewDecoder(w.Body).Decode(&detail); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(detail.Meals) != 4 {
		t.Errorf("expected all 4 slots in response, got %d", len(detail.Meals))
	}
	if detail.Totals.Calories != 247.5 {
		t.Errorf("expected 247.5 total calories, got %v", detail.Totals.Calories)
	}
}

func TestHandleList_Defaults(t *testing.T) {
	handler, _ := newTestHandler()

	w := httptest.NewRecorder()
	handler.HandleList(w, authedRequest(http.MethodGet, "/v1/meals", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp ListMealPlansResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Page != 1 || resp.PageSize != 20 {
		t.Errorf("expected page=1 pageSize=20, got page=%d pageSize=%d", resp.Page, resp.PageSize)
	}
	if resp.Meals == nil {
		t.Error("meals must be an empty array, not null")
	}
}

func TestHandleDelete_OwnershipMismatch(t *testing.T) {
	handler, store := newTestHandler()

	body, _ := json.Marshal(CreateMealPlanRequest{
		Name: "Keep out",
		Foods: SlotFoods{
			Snack: []LineItemInput{{FoodID: 3, QuantityG: ptr(50)}},
		},
	})
	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(http.MethodPost, "/v1/meals", body))
	var plan MealPlanDTO
	json.NewDecoder(w.Body).Decode(&plan)

	req := httptest.NewRequest(http.MethodDelete, "/v1/meals/"+plan.ID, nil)
	req = req.WithContext(userctx.WithUserID(req.Context(), "intruder"))
	req.SetPathValue("id", plan.ID)

	w = httptest.NewRecorder()
	handler.HandleDelete(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for foreign plan, got %d", w.Code)
	}
	if len(store.plans) != 1 {
		t.Errorf("plan should survive a foreign delete, got %d plans", len(store.plans))
	}
}
