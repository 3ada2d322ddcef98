package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmops/capacity-api-go/pkg/models"
)

// ValidateInput checks a plan without running it. Structural problems come
// back as valid=false with the first error found, never as an HTTP error.
func (h *Handler) ValidateInput(c *gin.Context) {
	var plan models.PlanInput
	if err := c.ShouldBindJSON(&plan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	plan.ApplyDefaults()
	if err := plan.Validate(); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	totalHires := 0
	for _, sc := range plan.Scenarios {
		totalHires += sc.TotalPlannedHires()
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"stage_count":    len(plan.Stages),
			"facility_count": len(plan.Facilities),
			"scenario_count": len(plan.Scenarios),
			"planned_hires":  totalHires,
			"horizon_weeks":  plan.HorizonWeeks,
		},
	})
}
