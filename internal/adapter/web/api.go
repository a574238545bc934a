package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simaogato/ventureflow/internal/domain"
	"github.com/simaogato/ventureflow/internal/usecase/dashboard"
	"github.com/simaogato/ventureflow/internal/usecase/portfolio"
)

// APIHandler exposes the session workflow as JSON
type APIHandler struct {
	Service   *portfolio.PortfolioService
	Dashboard *dashboard.DashboardService
	Logger    *zap.Logger
}

// Register mounts the session-bound routes on r and the stateless ones on open
func (h *APIHandler) Register(r gin.IRouter, open gin.IRouter) {
	r.GET("/records", h.listRecords)
	r.POST("/records", h.addRecord)
	r.PATCH("/records/:id", h.updateRecord)
	r.DELETE("/records/:id", h.deleteRecord)
	r.POST("/records/clear", h.clearRecords)
	r.POST("/charts/generate", h.generateCharts)
	r.GET("/charts", h.charts)
	r.GET("/summary", h.summary)
	r.POST("/preset/unlock", h.unlockPreset)

	open.POST("/derive", h.derive)
}

func (h *APIHandler) listRecords(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}
	session, err := h.Service.GetSession(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	Ok(c, session.Records, map[string]any{"total": len(session.Records), "charts_visible": session.ChartsVisible})
}

func (h *APIHandler) addRecord(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}

	var body map[string]any
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			Error(c, http.StatusBadRequest, "invalid json body", nil)
			return
		}
	}
	values, err := domain.FieldValues(body)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	record, err := h.Service.AddRecord(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(values) > 0 {
		record, err = h.Service.UpdateRecord(ctx, id, record.ID, values)
		if err != nil {
			h.fail(c, err)
			return
		}
	}
	Ok(c, record, nil)
}

func (h *APIHandler) updateRecord(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid record id", nil)
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		Error(c, http.StatusBadRequest, "invalid json body", nil)
		return
	}
	values, err := domain.FieldValues(body)
	if err != nil {
		h.fail(c, err)
		return
	}

	record, err := h.Service.UpdateRecord(c.Request.Context(), id, recordID, values)
	if err != nil {
		h.fail(c, err)
		return
	}
	Ok(c, record, nil)
}

func (h *APIHandler) deleteRecord(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid record id", nil)
		return
	}
	if err := h.Service.DeleteRecord(c.Request.Context(), id, recordID); err != nil {
		h.fail(c, err)
		return
	}
	Ok(c, gin.H{"deleted": recordID}, nil)
}

func (h *APIHandler) clearRecords(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.Service.Clear(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	h.listRecords(c)
}

func (h *APIHandler) generateCharts(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	charts, err := h.Service.GenerateCharts(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNoChartData) {
			// the notice belongs to the page flow; the API reports it directly
			_, _ = h.Service.TakeNotice(ctx, id)
		}
		h.fail(c, err)
		return
	}
	if charts.CashflowNotice != "" {
		_, _ = h.Service.TakeNotice(ctx, id)
	}
	Ok(c, charts, nil)
}

func (h *APIHandler) charts(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}
	charts, err := h.Service.Charts(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	Ok(c, charts, nil)
}

func (h *APIHandler) summary(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}
	summary, err := h.Dashboard.GetSummary(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	Ok(c, summary, nil)
}

type unlockRequest struct {
	Passphrase string `json:"passphrase"`
}

func (h *APIHandler) unlockPreset(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}
	var req unlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid json body", nil)
		return
	}
	records, err := h.Service.UnlockPreset(c.Request.Context(), id, req.Passphrase)
	if err != nil {
		h.fail(c, err)
		return
	}
	Ok(c, records, map[string]any{"total": len(records)})
}

type deriveRequest struct {
	Records []map[string]any `json:"records"`
}

func (h *APIHandler) derive(c *gin.Context) {
	var req deriveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid json body", nil)
		return
	}

	records := make([]domain.InvestmentRecord, 0, len(req.Records))
	for _, m := range req.Records {
		record, err := domain.RecordFromMap(m)
		if err != nil {
			h.fail(c, err)
			return
		}
		records = append(records, record)
	}

	charts, err := portfolio.DeriveCharts(records)
	if err != nil {
		h.fail(c, err)
		return
	}
	Ok(c, charts, nil)
}

func (h *APIHandler) session(c *gin.Context) (uuid.UUID, bool) {
	id, err := sessionID(c)
	if err != nil {
		h.fail(c, err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *APIHandler) fail(c *gin.Context, err error) {
	status := httpStatus(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("api request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	_ = c.Error(err)
	Error(c, status, errorMessage(err), nil)
}
