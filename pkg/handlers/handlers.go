package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pharmops/capacity-api-go/pkg/auth"
	"github.com/pharmops/capacity-api-go/pkg/database"
	"github.com/pharmops/capacity-api-go/pkg/engine"
	"github.com/pharmops/capacity-api-go/pkg/models"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB *gorm.DB
}

// RegisterRoutes mounts the full route table on a gin engine. Both the
// standalone server and the serverless entry point use this.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Capacity Planning API",
			"version": "1.0.0",
		})
	})

	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
		admin.GET("/runs", h.ListRuns)
	}

	// Planner Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/plan", h.PlanJSON)
		api.POST("/plan/csv", h.PlanCSV)
		api.POST("/forecast", h.Forecast)
		api.POST("/validate", h.ValidateInput)
		api.GET("/usage", h.GetMyUsage)
	}
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the API key for planner routes using HMAC
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Authorization")
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			c.Abort()
			return
		}

		if len(key) > 7 && key[:7] == "Bearer " {
			key = key[7:]
		}

		userID, err := auth.VerifyHMACKey(key)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			c.Abort()
			return
		}

		// Look up the stored key record and stamp its last use; a key seen
		// for the first time gets a record created on the spot.
		apiKey, err := auth.VerifyAPIKey(h.DB, key)
		if err != nil {
			apiKey = &database.APIKey{
				Key:       key,
				Name:      userID,
				RateLimit: 10000,
			}
			h.DB.Create(apiKey)
		}

		c.Set("apiKey", apiKey)
		c.Set("userID", userID)
		c.Next()
	}
}

// PlanJSON handles the JSON-based planning request: it validates the plan,
// runs every scenario, and returns the comparison report.
func (h *Handler) PlanJSON(c *gin.Context) {
	var plan models.PlanInput
	if err := c.ShouldBindJSON(&plan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan.ApplyDefaults()
	if err := plan.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	started := time.Now()
	report := engine.NewPlanner(&plan).CompareScenarios(uuid.NewString())

	// Record usage
	h.RecordUsage(c, len(report.Scenarios), len(report.Scenarios)*report.HorizonWeeks)
	h.RecordRun(c, "api", report, time.Since(started))

	c.JSON(http.StatusOK, report)
}

// Forecast handles a standalone demand projection request, without stages
// or scenarios.
func (h *Handler) Forecast(c *gin.Context) {
	var req struct {
		BaselineDailyOrders  float64 `json:"baseline_daily_orders"`
		WorkingDaysPerWeek   int     `json:"working_days_per_week"`
		HorizonWeeks         int     `json:"horizon_weeks"`
		MonthlyGrowthPercent float64 `json:"monthly_growth_percent"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan := models.PlanInput{
		BaselineDailyOrders: req.BaselineDailyOrders,
		WorkingDaysPerWeek:  req.WorkingDaysPerWeek,
		HorizonWeeks:        req.HorizonWeeks,
	}
	plan.ApplyDefaults()

	if plan.BaselineDailyOrders < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "baseline_daily_orders must be >= 0"})
		return
	}
	if plan.WorkingDaysPerWeek < 1 || plan.WorkingDaysPerWeek > 7 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "working_days_per_week must be between 1 and 7"})
		return
	}
	if plan.HorizonWeeks < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "horizon_weeks must be >= 1"})
		return
	}

	forecast := engine.NewPlanner(&plan).Forecast(models.GrowthAssumption{
		MonthlyGrowthPercent: req.MonthlyGrowthPercent,
	})

	h.RecordUsage(c, 0, plan.HorizonWeeks)

	c.JSON(http.StatusOK, gin.H{"forecast": forecast})
}

// RecordUsage records API usage in the database using an efficient upsert
func (h *Handler) RecordUsage(c *gin.Context, scenarioCount, weekCount int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := time.Now().Format("2006-01-02")

	// Use OnConflict for a single-query upsert (supported by both Postgres and SQLite)
	h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":   gorm.Expr("request_count + ?", 1),
			"total_scenarios": gorm.Expr("total_scenarios + ?", scenarioCount),
			"total_weeks":     gorm.Expr("total_weeks + ?", weekCount),
		}),
	}).Create(&database.APIUsage{
		KeyID:          apiKey.ID,
		Date:           today,
		RequestCount:   1,
		TotalScenarios: scenarioCount,
		TotalWeeks:     weekCount,
	})
}

// RecordRun appends one row to the plan-run audit trail
func (h *Handler) RecordRun(c *gin.Context, source string, report models.ComparisonReport, took time.Duration) {
	run := database.PlanRun{
		RunID:        report.RunID,
		Source:       source,
		Scenarios:    len(report.Scenarios),
		HorizonWeeks: report.HorizonWeeks,
		DurationMs:   took.Milliseconds(),
	}
	if apiKeyRaw, exists := c.Get("apiKey"); exists {
		run.KeyID = apiKeyRaw.(*database.APIKey).ID
	}
	h.DB.Create(&run)
}

// openCSV reads a multipart CSV upload and returns its reader plus a map
// from header name to column index.
func openCSV(fh *multipart.FileHeader) (*csv.Reader, map[string]int, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, nil, err
	}
	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		f.Close()
		return nil, nil, nil, err
	}
	cols := make(map[string]int)
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	return reader, cols, f, nil
}

// PlanCSV handles CSV file uploads for planning. Stages arrive in
// stages_file; facilities_file, equipment_file, scenarios_file, and
// hires_file are optional. Scalar inputs come as form fields.
func (h *Handler) PlanCSV(c *gin.Context) {
	stagesFile, _ := c.FormFile("stages_file")
	facilitiesFile, _ := c.FormFile("facilities_file")
	equipmentFile, _ := c.FormFile("equipment_file")
	scenariosFile, _ := c.FormFile("scenarios_file")
	hiresFile, _ := c.FormFile("hires_file")

	if stagesFile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stages_file is required"})
		return
	}

	plan := models.PlanInput{}
	plan.BaselineDailyOrders, _ = strconv.ParseFloat(c.PostForm("baseline_daily_orders"), 64)
	plan.WorkingDaysPerWeek, _ = strconv.Atoi(c.PostForm("working_days_per_week"))
	plan.HorizonWeeks, _ = strconv.Atoi(c.PostForm("horizon_weeks"))
	plan.ApplyDefaults()

	// Parse stages
	sReader, sCols, sClose, err := openCSV(stagesFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read stages file"})
		return
	}
	defer sClose.Close()
	for {
		record, err := sReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		headcount, _ := strconv.Atoi(record[sCols["headcount"]])
		capacity, _ := strconv.ParseFloat(record[sCols["capacity_per_person"]], 64)
		stage := models.StageConfig{
			Name:              record[sCols["name"]],
			Headcount:         headcount,
			CapacityPerPerson: capacity,
		}
		if idx, ok := sCols["unit"]; ok && record[idx] != "" {
			stage.Unit = record[idx]
		}
		plan.Stages = append(plan.Stages, stage)
	}

	// Parse facilities
	if facilitiesFile != nil {
		fReader, fCols, fClose, err := openCSV(facilitiesFile)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read facilities file"})
			return
		}
		defer fClose.Close()
		for {
			record, err := fReader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				continue
			}
			current, _ := strconv.ParseFloat(record[fCols["current_units"]], 64)
			max, _ := strconv.ParseFloat(record[fCols["max_units"]], 64)
			throughput, _ := strconv.ParseFloat(record[fCols["throughput_per_unit_per_day"]], 64)
			plan.Facilities = append(plan.Facilities, models.FacilityResource{
				Name:                    record[fCols["name"]],
				CurrentUnits:            current,
				MaxUnits:                max,
				ThroughputPerUnitPerDay: throughput,
			})
		}
	}

	// Parse equipment events
	if equipmentFile != nil {
		eReader, eCols, eClose, err := openCSV(equipmentFile)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read equipment file"})
			return
		}
		defer eClose.Close()
		for {
			record, err := eReader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				continue
			}
			week, _ := strconv.Atoi(record[eCols["effective_week"]])
			boost, _ := strconv.ParseFloat(record[eCols["capacity_boost_percent"]], 64)
			plan.EquipmentEvents = append(plan.EquipmentEvents, models.EquipmentEvent{
				Description:          record[eCols["description"]],
				AppliesTo:            record[eCols["applies_to"]],
				EffectiveWeek:        week,
				CapacityBoostPercent: boost,
			})
		}
	}

	// Parse scenarios; without a scenarios file a single one is built from
	// the monthly_growth_percent form field.
	scenarioIdx := make(map[string]int)
	if scenariosFile != nil {
		scReader, scCols, scClose, err := openCSV(scenariosFile)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read scenarios file"})
			return
		}
		defer scClose.Close()
		for {
			record, err := scReader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				continue
			}
			growth, _ := strconv.ParseFloat(record[scCols["monthly_growth_percent"]], 64)
			sc := models.Scenario{
				Name:   record[scCols["name"]],
				Growth: models.GrowthAssumption{MonthlyGrowthPercent: growth},
			}
			if idx, ok := scCols["description"]; ok && record[idx] != "" {
				sc.Description = record[idx]
			}
			scenarioIdx[sc.Name] = len(plan.Scenarios)
			plan.Scenarios = append(plan.Scenarios, sc)
		}
	} else {
		growth, _ := strconv.ParseFloat(c.PostForm("monthly_growth_percent"), 64)
		plan.Scenarios = []models.Scenario{{
			Name:   "Baseline",
			Growth: models.GrowthAssumption{MonthlyGrowthPercent: growth},
		}}
		scenarioIdx["Baseline"] = 0
	}

	// Parse hires; rows name the scenario they belong to. Rows for unknown
	// scenarios are rejected rather than dropped.
	if hiresFile != nil {
		hReader, hCols, hClose, err := openCSV(hiresFile)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read hires file"})
			return
		}
		defer hClose.Close()
		for {
			record, err := hReader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				continue
			}
			scenarioName := record[hCols["scenario"]]
			idx, ok := scenarioIdx[scenarioName]
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "hires file references unknown scenario: " + scenarioName})
				return
			}
			count, _ := strconv.Atoi(record[hCols["count"]])
			week, _ := strconv.Atoi(record[hCols["effective_week"]])
			onboarding, _ := strconv.Atoi(record[hCols["onboarding_weeks"]])
			hire := models.HiringEvent{
				Role:            record[hCols["role"]],
				Count:           count,
				EffectiveWeek:   week,
				OnboardingWeeks: onboarding,
			}
			if noteIdx, ok := hCols["note"]; ok && record[noteIdx] != "" {
				hire.Note = record[noteIdx]
			}
			plan.Scenarios[idx].HiringEvents = append(plan.Scenarios[idx].HiringEvents, hire)
		}
	}

	if err := plan.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	started := time.Now()
	report := engine.NewPlanner(&plan).CompareScenarios(uuid.NewString())

	// Record usage
	h.RecordUsage(c, len(report.Scenarios), len(report.Scenarios)*report.HorizonWeeks)
	h.RecordRun(c, "csv", report, time.Since(started))

	// Export the utilization table as CSV
	var outCSV strings.Builder
	writer := csv.NewWriter(&outCSV)
	writer.Write([]string{"scenario", "week", "stage", "effective_headcount",
		"total_weekly_capacity", "weekly_demand", "utilization", "backlog", "is_bottleneck", "status"})

	for _, result := range report.Scenarios {
		for _, row := range result.Utilization {
			writer.Write([]string{
				result.ScenarioName,
				strconv.Itoa(row.Week),
				row.StageName,
				strconv.Itoa(row.EffectiveHeadcount),
				fmt.Sprintf("%.2f", row.TotalWeeklyCapacity),
				fmt.Sprintf("%.2f", row.WeeklyDemand),
				fmt.Sprintf("%.4f", row.Utilization),
				fmt.Sprintf("%.2f", row.Backlog),
				strconv.FormatBool(row.IsBottleneck),
				string(row.Status),
			})
		}
	}
	writer.Flush()

	c.JSON(http.StatusOK, gin.H{
		"run_id": report.RunID,
		"csv":    outCSV.String(),
	})
}

// Login handles admin login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user database.MasterUser
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.CreateToken(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// GenerateKey creates a new API key using the HMAC strategy
func (h *Handler) GenerateKey(c *gin.Context) {
	var req struct {
		Name      string `json:"name"`
		RateLimit int    `json:"rate_limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	if req.RateLimit == 0 {
		req.RateLimit = 10000
	}

	// Generate key using HMAC
	key := auth.GenerateHMACKey(req.Name)

	// Create preview (e.g., sk_...****)
	preview := ""
	if len(key) > 8 {
		preview = key[:3] + "..." + key[len(key)-4:]
	} else {
		preview = "****"
	}

	apiKey := database.APIKey{
		Key:        key,
		Name:       req.Name,
		KeyPreview: preview,
		RateLimit:  req.RateLimit,
	}

	if err := h.DB.Create(&apiKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create key record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name": req.Name,
		"key":  key,
	})
}

// ListKeys returns all API keys
func (h *Handler) ListKeys(c *gin.Context) {
	var keys []database.APIKey
	h.DB.Find(&keys)
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

// RevokeKey deletes an API key
func (h *Handler) RevokeKey(c *gin.Context) {
	id := c.Param("id")
	if err := h.DB.Delete(&database.APIKey{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Key revoked"})
}

// UpdateKeyLimit updates the rate limit for a key
func (h *Handler) UpdateKeyLimit(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		RateLimit int `json:"rate_limit" form:"rate_limit"`
	}

	// Try JSON first, then Form/Query
	if err := c.ShouldBindJSON(&req); err != nil {
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rate_limit is required"})
			return
		}
	}

	if req.RateLimit == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rate limit"})
		return
	}

	if err := h.DB.Model(&database.APIKey{}).Where("id = ?", id).Update("rate_limit", req.RateLimit).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update key limit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rate limit updated successfully"})
}

// GetUsage returns usage stats for a key
func (h *Handler) GetUsage(c *gin.Context) {
	id := c.Param("id")
	var usage []database.APIUsage
	h.DB.Where("key_id = ?", id).Order("date desc").Limit(30).Find(&usage)
	c.JSON(http.StatusOK, gin.H{"usage": usage})
}

// ListRuns returns the most recent plan runs from the audit trail
func (h *Handler) ListRuns(c *gin.Context) {
	var runs []database.PlanRun
	h.DB.Order("created_at desc").Limit(50).Find(&runs)
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
