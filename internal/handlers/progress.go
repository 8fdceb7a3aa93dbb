package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/habit-analytics-service/internal/analytics"
	"github.com/PratikDhanave/habit-analytics-service/internal/auth"
	"github.com/PratikDhanave/habit-analytics-service/internal/models"
	"github.com/PratikDhanave/habit-analytics-service/internal/progress"
)

// RegisterProgressRoutes registers the serving-path endpoints.
//
// GET /progress             full stage-gated report
// GET /progress/daily       daily completion series
// GET /progress/scores      summary plus goal and habit scores
// GET /progress/streaks     current/best streak per habit
// GET /progress/momentum    ?window=N (default 7)
// GET /progress/trend       Improving/Declining/Stable, null below 7 dates
// GET /progress/risk        risk signal
// GET /progress/insights    behavioral insights
// GET /progress/status      Day-0 and grace-day flags from the live store
//
// Every request recomputes from the store; nothing is cached.
func RegisterProgressRoutes(r gin.IRoutes, svc *progress.Service, now func() time.Time) {
	r.GET("/progress", func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		report, err := svc.Report(c.Request.Context(), userID, now())
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		c.JSON(http.StatusOK, report)
	})

	r.GET("/progress/daily", withLog(svc, func(c *gin.Context, log analytics.Log) {
		c.JSON(http.StatusOK, gin.H{"daily": analytics.DailyCompletion(log)})
	}))

	r.GET("/progress/scores", withLog(svc, func(c *gin.Context, log analytics.Log) {
		days := analytics.ActiveDays(log)
		c.JSON(http.StatusOK, gin.H{
			"active_days":     days,
			"completion_rate": analytics.CompletionRate(log),
			"stage":           analytics.StageFor(days),
			"goal_scores":     analytics.GoalScores(log),
			"habit_scores":    analytics.HabitScores(log),
		})
	}))

	r.GET("/progress/streaks", withLog(svc, func(c *gin.Context, log analytics.Log) {
		c.JSON(http.StatusOK, gin.H{"streaks": analytics.HabitStreaks(log)})
	}))

	r.GET("/progress/momentum", func(c *gin.Context) {
		window := analytics.MomentumShortWindow
		if raw := c.Query("window"); raw != "" {
			w, err := strconv.Atoi(raw)
			if err != nil || w <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "window must be a positive integer"})
				return
			}
			window = w
		}

		withLog(svc, func(c *gin.Context, log analytics.Log) {
			resp := models.MomentumResponse{Window: window}
			if v, ok := analytics.Momentum(log, window); ok {
				resp.Value = &v
			}
			c.JSON(http.StatusOK, resp)
		})(c)
	})

	r.GET("/progress/trend", withLog(svc, func(c *gin.Context, log analytics.Log) {
		var resp models.TrendResponse
		if trend, ok := analytics.ConsistencyTrend(log); ok {
			s := string(trend)
			resp.Trend = &s
		}
		c.JSON(http.StatusOK, resp)
	}))

	r.GET("/progress/risk", withLog(svc, func(c *gin.Context, log analytics.Log) {
		c.JSON(http.StatusOK, gin.H{"risk": analytics.RiskSignal(log)})
	}))

	r.GET("/progress/insights", withLog(svc, func(c *gin.Context, log analytics.Log) {
		body := gin.H{
			"insights":        analytics.BehaviorInsights(log),
			"perfect_days":    analytics.PerfectDaysOf(log),
			"fragile_habit":   nil,
			"weekday_pattern": nil,
		}
		if h, ok := analytics.FragileHabitOf(log); ok {
			body["fragile_habit"] = h
		}
		if p, ok := analytics.WeekdayPatternOf(log); ok {
			body["weekday_pattern"] = p
		}
		c.JSON(http.StatusOK, body)
	}))

	r.GET("/progress/status", func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		hasAny, err := svc.HasAnyCompletion(ctx, userID)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		grace, err := svc.IsGraceDay(ctx, userID, now())
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"day0": !hasAny, "grace_day": grace})
	})
}

func requireUser(c *gin.Context) (int64, bool) {
	userID := auth.UserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	return userID, true
}

// withLog loads the caller's log snapshot and hands it to view.
func withLog(svc *progress.Service, view func(*gin.Context, analytics.Log)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		log, err := svc.Log(c.Request.Context(), userID)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		view(c, log)
	}
}
