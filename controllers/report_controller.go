package controllers

import (
	"time"

	"frontdesk/pkg/resp"
	"frontdesk/services"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	Service *services.ReportService
	Now     func() time.Time
}

func NewReportController(s *services.ReportService) *ReportController {
	return &ReportController{Service: s, Now: time.Now}
}

// GET /dashboard
func (rc *ReportController) Dashboard(c *gin.Context) {
	st, err := rc.Service.Dashboard(c.Request.Context(), rc.Now())
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, st)
}

// GET /dashboard/anniversaries
func (rc *ReportController) Anniversaries(c *gin.Context) {
	out, err := rc.Service.Anniversaries(c.Request.Context(), rc.Now())
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /reports/guests?from=&to= (defaults to the last 7 days)
func (rc *ReportController) Guests(c *gin.Context) {
	from, to, ok := window(c)
	if !ok {
		return
	}
	now := rc.Now()
	if to == nil {
		to = &now
	}
	if from == nil {
		f := to.AddDate(0, 0, -7)
		from = &f
	}
	list, err := rc.Service.GuestsBetween(c.Request.Context(), *from, *to)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, list)
}

// GET /broadcast/targets
func (rc *ReportController) Broadcast(c *gin.Context) {
	out, err := rc.Service.BroadcastTargets(c.Request.Context(), rc.Now())
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, out)
}
