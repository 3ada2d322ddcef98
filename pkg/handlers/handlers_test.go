package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/pharmops/capacity-api-go/pkg/auth"
	"github.com/pharmops/capacity-api-go/pkg/database"
	"github.com/pharmops/capacity-api-go/pkg/models"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("API_MASTER_SECRET", "test-secret")
	t.Setenv("DATA_PATH", filepath.Join(t.TempDir(), "test.db"))

	gin.SetMode(gin.TestMode)
	db := database.InitDB()
	h := &Handler{DB: db}

	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func testKey() string {
	return auth.GenerateHMACKey("tester")
}

func planRequest(t *testing.T, r *gin.Engine, key string, plan models.PlanInput) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(plan)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/plan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func smallPlan() models.PlanInput {
	return models.PlanInput{
		BaselineDailyOrders: 100,
		WorkingDaysPerWeek:  5,
		HorizonWeeks:        8,
		Stages: []models.StageConfig{
			{Name: "Pack", Headcount: 2, CapacityPerPerson: 30},
		},
		Scenarios: []models.Scenario{
			{Name: "Flat", Growth: models.GrowthAssumption{MonthlyGrowthPercent: 0}},
		},
	}
}

func TestPlanRequiresAPIKey(t *testing.T) {
	r := setupRouter(t)

	w := planRequest(t, r, "", smallPlan())
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a key, got %d", w.Code)
	}

	w = planRequest(t, r, "tester.not-a-signature", smallPlan())
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with a forged key, got %d", w.Code)
	}
}

func TestPlanJSON(t *testing.T) {
	r := setupRouter(t)

	w := planRequest(t, r, testKey(), smallPlan())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var report models.ComparisonReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("Could not decode report: %v", err)
	}
	if report.RunID == "" {
		t.Error("Expected a run ID on the report")
	}
	if len(report.Scenarios) != 1 {
		t.Fatalf("Expected 1 scenario result, got %d", len(report.Scenarios))
	}
	result := report.Scenarios[0]
	if len(result.Forecast) != 8 {
		t.Errorf("Expected 8 forecast weeks, got %d", len(result.Forecast))
	}
	if result.Forecast[0].WeeklyOrders != 500 {
		t.Errorf("Expected week 1 weekly orders 500, got %f", result.Forecast[0].WeeklyOrders)
	}
}

func TestPlanJSONAppliesDefaults(t *testing.T) {
	r := setupRouter(t)

	plan := smallPlan()
	plan.HorizonWeeks = 0
	plan.WorkingDaysPerWeek = 0
	w := planRequest(t, r, testKey(), plan)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected defaults to make the plan valid, got %d: %s", w.Code, w.Body.String())
	}

	var report models.ComparisonReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.HorizonWeeks != models.DefaultHorizonWeeks {
		t.Errorf("Expected default horizon, got %d", report.HorizonWeeks)
	}
}

func TestPlanJSONRejectsInvalid(t *testing.T) {
	r := setupRouter(t)

	plan := smallPlan()
	plan.Stages[0].Headcount = -1
	w := planRequest(t, r, testKey(), plan)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a negative headcount, got %d", w.Code)
	}

	plan = smallPlan()
	plan.Scenarios = nil
	w = planRequest(t, r, testKey(), plan)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a plan without scenarios, got %d", w.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	r := setupRouter(t)
	key := testKey()

	body, _ := json.Marshal(smallPlan())
	req := httptest.NewRequest(http.MethodPost, "/api/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", key)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Valid {
		t.Errorf("Expected a valid plan, got %s", w.Body.String())
	}

	bad := smallPlan()
	bad.Scenarios[0].HiringEvents = []models.HiringEvent{
		{Role: "Unknown", Count: 1, EffectiveWeek: 2},
	}
	body, _ = json.Marshal(bad)
	req = httptest.NewRequest(http.MethodPost, "/api/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", key)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Validation problems should still return 200, got %d", w.Code)
	}
	var badResp struct {
		Valid bool   `json:"valid"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &badResp); err != nil {
		t.Fatal(err)
	}
	if badResp.Valid || !strings.Contains(badResp.Error, "Unknown") {
		t.Errorf("Expected valid=false naming the unknown role, got %s", w.Body.String())
	}
}

func TestForecastEndpoint(t *testing.T) {
	r := setupRouter(t)

	payload := `{"baseline_daily_orders": 800, "monthly_growth_percent": 5}`
	req := httptest.NewRequest(http.MethodPost, "/api/forecast", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", testKey())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Forecast []models.WeeklySnapshot `json:"forecast"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Forecast) != models.DefaultHorizonWeeks {
		t.Errorf("Expected the default 52-week forecast, got %d weeks", len(resp.Forecast))
	}
	if resp.Forecast[0].WeeklyOrders != 4000 {
		t.Errorf("Expected week 1 weekly orders 4000, got %f", resp.Forecast[0].WeeklyOrders)
	}
}

func TestPlanCSV(t *testing.T) {
	r := setupRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("stages_file", "stages.csv")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("name,headcount,capacity_per_person,unit\nPack,2,30,orders/day\nShip,1,100,orders/day\n"))

	fw, err = mw.CreateFormFile("scenarios_file", "scenarios.csv")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("name,monthly_growth_percent,description\nBaseline,5,Current trajectory\nFast,8,\n"))

	fw, err = mw.CreateFormFile("hires_file", "hires.csv")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("scenario,role,count,effective_week,onboarding_weeks\nBaseline,Pack,1,4,1\n"))

	mw.WriteField("baseline_daily_orders", "100")
	mw.WriteField("horizon_weeks", "6")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/plan/csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", testKey())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		RunID string `json:"run_id"`
		CSV   string `json:"csv"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.RunID == "" {
		t.Error("Expected a run ID")
	}
	lines := strings.Split(strings.TrimSpace(resp.CSV), "\n")
	// Header plus 2 scenarios x 6 weeks x 2 stages.
	if len(lines) != 1+2*6*2 {
		t.Errorf("Expected 25 CSV lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "scenario,week,stage") {
		t.Errorf("Unexpected CSV header: %s", lines[0])
	}
	if !strings.Contains(resp.CSV, "Baseline,1,Pack") {
		t.Error("Expected a Baseline week-1 row for the Pack stage")
	}
}

func TestPlanCSVRequiresStages(t *testing.T) {
	r := setupRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("baseline_daily_orders", "100")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/plan/csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", testKey())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without a stages file, got %d", w.Code)
	}
}

func TestUsageRecording(t *testing.T) {
	r := setupRouter(t)
	key := testKey()

	if w := planRequest(t, r, key, smallPlan()); w.Code != http.StatusOK {
		t.Fatalf("Plan request failed: %d", w.Code)
	}
	if w := planRequest(t, r, key, smallPlan()); w.Code != http.StatusOK {
		t.Fatalf("Plan request failed: %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/usage", nil)
	req.Header.Set("Authorization", key)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from usage endpoint, got %d", w.Code)
	}
	var resp struct {
		Totals struct {
			Requests  int64 `json:"requests"`
			Scenarios int64 `json:"scenarios"`
			Weeks     int64 `json:"weeks"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Totals.Requests != 2 {
		t.Errorf("Expected 2 recorded requests, got %d", resp.Totals.Requests)
	}
	if resp.Totals.Scenarios != 2 {
		t.Errorf("Expected 2 recorded scenarios, got %d", resp.Totals.Scenarios)
	}
	if resp.Totals.Weeks != 16 {
		t.Errorf("Expected 16 recorded scenario-weeks, got %d", resp.Totals.Weeks)
	}
}

func TestAdminFlow(t *testing.T) {
	t.Setenv("ADMIN_USERNAME", "")
	t.Setenv("ADMIN_PASSWORD", "")
	r := setupRouter(t)

	// Seed the default admin the way the server does at startup.
	db := database.InitDB()
	if err := auth.EnsureAdminExists(db); err != nil {
		t.Fatal(err)
	}

	body := `{"username": "admin", "password": "admin123"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected login to succeed, got %d: %s", w.Code, w.Body.String())
	}
	var loginResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatal(err)
	}
	if loginResp.AccessToken == "" {
		t.Fatal("Expected an access token")
	}

	// Create a key through the admin API, then list keys.
	req = httptest.NewRequest(http.MethodPost, "/admin/keys", strings.NewReader(`{"name": "ops-team"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+loginResp.AccessToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected key creation to succeed, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/keys", nil)
	req.Header.Set("Authorization", "Bearer "+loginResp.AccessToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected key listing to succeed, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/keys", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a token, got %d", w.Code)
	}
}
