package extensions

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/bundle"
)

const healthTimeout = 5 * time.Second

// Health reports the result of every registered health check.
type Health struct {
	Path string
}

type healthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// InitApp mounts the health endpoint.
func (e *Health) InitApp(a *app.Application) error {
	bp := &bundle.Blueprint{
		Name: HealthID,
		Routes: func(r gin.IRoutes) {
			r.GET(e.Path, func(c *gin.Context) {
				ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
				defer cancel()

				status, report := buildReport(a.CheckHealth(ctx))
				renderJSON(c, status, report)
			})
		},
	}
	return a.RegisterBlueprint(HealthID, bp, "")
}

func buildReport(results map[string]error) (int, healthReport) {
	report := healthReport{Status: "ok", Checks: make(map[string]string, len(results))}
	status := http.StatusOK
	for name, err := range results {
		if err != nil {
			report.Checks[name] = err.Error()
			report.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		report.Checks[name] = "ok"
	}
	return status, report
}
