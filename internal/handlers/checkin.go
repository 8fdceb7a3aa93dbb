package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/habit-analytics-service/internal/analytics"
	"github.com/PratikDhanave/habit-analytics-service/internal/auth"
	"github.com/PratikDhanave/habit-analytics-service/internal/models"
)

// CheckinStore is the write path behind daily check-ins.
type CheckinStore interface {
	OwnsSubGoal(ctx context.Context, userID, subGoalID int64) (bool, error)
	SetStatus(ctx context.Context, subGoalID int64, date time.Time, completed bool) error
	GetStatus(ctx context.Context, subGoalID int64, date time.Time) (completed, found bool, err error)
}

// RegisterCheckinRoutes registers the ingestion-path endpoints.
//
// POST /checkins
// - Requires X-API-Key (user context)
// - Today only: a date other than today is rejected
// - Idempotent: one row per (sub_goal_id, date); repeats overwrite the flag
//
// GET /checkins/:sub_goal_id
// - Returns today's status for the sub-goal
func RegisterCheckinRoutes(r gin.IRoutes, st CheckinStore, now func() time.Time) {
	r.POST("/checkins", func(c *gin.Context) {
		userID := auth.UserID(c)
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req models.CheckinRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		// Required fields per contract.
		if req.SubGoalID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sub_goal_id required"})
			return
		}
		if req.Completed == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "completed required"})
			return
		}

		today := analytics.DateOf(now())
		if req.Date != "" {
			d, err := analytics.ParseDate(req.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
				return
			}
			if !d.Equal(today) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "only today's progress can be updated"})
				return
			}
		}

		if !ownsSubGoal(c, st, userID, req.SubGoalID) {
			return
		}

		if err := st.SetStatus(c.Request.Context(), req.SubGoalID, today, *req.Completed); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db write failed"})
			return
		}

		c.JSON(http.StatusOK, models.CheckinResponse{
			SubGoalID: req.SubGoalID,
			Date:      today.Format(time.DateOnly),
			Completed: *req.Completed,
			Found:     true,
		})
	})

	r.GET("/checkins/:sub_goal_id", func(c *gin.Context) {
		userID := auth.UserID(c)
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		subGoalID, err := strconv.ParseInt(c.Param("sub_goal_id"), 10, 64)
		if err != nil || subGoalID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sub_goal_id must be a positive integer"})
			return
		}
		if !ownsSubGoal(c, st, userID, subGoalID) {
			return
		}

		today := analytics.DateOf(now())
		completed, found, err := st.GetStatus(c.Request.Context(), subGoalID, today)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}

		c.JSON(http.StatusOK, models.CheckinResponse{
			SubGoalID: subGoalID,
			Date:      today.Format(time.DateOnly),
			Completed: completed,
			Found:     found,
		})
	})
}

// ownsSubGoal writes the error response and returns false unless the
// sub-goal is an active one of the user's.
func ownsSubGoal(c *gin.Context, st CheckinStore, userID, subGoalID int64) bool {
	owned, err := st.OwnsSubGoal(c.Request.Context(), userID, subGoalID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
		return false
	}
	if !owned {
		c.JSON(http.StatusNotFound, gin.H{"error": "sub goal not found"})
		return false
	}
	return true
}
