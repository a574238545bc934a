package web

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simaogato/ventureflow/internal/adapter/render"
	"github.com/simaogato/ventureflow/internal/domain"
	"github.com/simaogato/ventureflow/internal/usecase/dashboard"
	"github.com/simaogato/ventureflow/internal/usecase/portfolio"
)

// PageHandler serves the server-rendered form and its chart images
// Every form action first saves the posted table, then performs its own
// change and redirects back to the page.
type PageHandler struct {
	Service  *portfolio.PortfolioService
	Renderer *render.SVGRenderer
	Logger   *zap.Logger
	tmpl     *template.Template
}

func NewPageHandler(service *portfolio.PortfolioService, renderer *render.SVGRenderer, logger *zap.Logger) (*PageHandler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &PageHandler{Service: service, Renderer: renderer, Logger: logger, tmpl: tmpl}, nil
}

func (h *PageHandler) Register(r gin.IRouter) {
	r.GET("/", h.index)
	r.POST("/rows/add", h.addRow)
	r.POST("/rows/:id/delete", h.deleteRow)
	r.POST("/rows/clear", h.clear)
	r.POST("/charts/generate", h.generate)
	r.POST("/preset/open", h.openPreset)
	r.POST("/preset/cancel", h.cancelPreset)
	r.POST("/preset/unlock", h.unlockPreset)
	r.GET("/charts/timeline.svg", h.timelineSVG)
	r.GET("/charts/cashflow.svg", h.cashflowSVG)
}

type rowView struct {
	domain.InvestmentRecord
	AmountDisplay string
}

type pageView struct {
	Rows          []rowView
	CanDelete     bool
	Markets       []domain.Market
	Statuses      []domain.Status
	Notice        string
	GateOpen      bool
	ChartsVisible bool
	Timeline      *domain.TimelineChart
	Cashflow      *domain.CashflowChart
	CashflowNote  string
	TotalInvested string
	TotalReturned string
	Multiple      string
	Version       string
}

func (h *PageHandler) index(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := sessionID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	notice, err := h.Service.TakeNotice(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	session, err := h.Service.GetSession(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	view := pageView{
		Rows:          make([]rowView, 0, len(session.Records)),
		CanDelete:     len(session.Records) > 1,
		Markets:       domain.Markets,
		Statuses:      domain.Statuses,
		Notice:        notice,
		GateOpen:      session.Gate.IsOpen(),
		ChartsVisible: session.ChartsVisible,
		Version:       strconv.FormatInt(time.Now().UnixNano(), 36),
	}

	for _, record := range session.Records {
		row := rowView{InvestmentRecord: record}
		if parsed := record.Parse(); parsed.HasAmount {
			row.AmountDisplay = domain.FormatDollars(parsed.Amount)
		}
		view.Rows = append(view.Rows, row)
	}

	summary := dashboard.Summarize(session.Records)
	view.TotalInvested = domain.FormatDollars(summary.Invested.InexactFloat64())
	view.TotalReturned = domain.FormatDollars(summary.Returned.InexactFloat64())
	view.Multiple = summary.Multiple.StringFixed(2) + "x"

	if session.ChartsVisible {
		charts, err := portfolio.DeriveCharts(session.Records)
		switch {
		case err == nil:
			view.Timeline = charts.Timeline
			view.Cashflow = charts.Cashflow
			view.CashflowNote = charts.CashflowNotice
		case errors.Is(err, domain.ErrNoChartData):
			// rows were edited after generating; the placeholder is shown
		default:
			h.Logger.Warn("derive charts for page failed", zap.Error(err))
		}
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "index.html", view); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *PageHandler) addRow(c *gin.Context) {
	h.withEdits(c, "#table", func(id uuid.UUID) error {
		_, err := h.Service.AddRecord(c.Request.Context(), id)
		return err
	})
}

func (h *PageHandler) deleteRow(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid row id")
		return
	}
	h.withEdits(c, "#table", func(id uuid.UUID) error {
		err := h.Service.DeleteRecord(c.Request.Context(), id, recordID)
		if errors.Is(err, domain.ErrLastRecord) || errors.Is(err, domain.ErrRecordNotFound) {
			return nil
		}
		return err
	})
}

func (h *PageHandler) clear(c *gin.Context) {
	h.withSession(c, "", func(id uuid.UUID) error {
		return h.Service.Clear(c.Request.Context(), id)
	})
}

func (h *PageHandler) generate(c *gin.Context) {
	h.withEdits(c, "#charts", func(id uuid.UUID) error {
		_, err := h.Service.GenerateCharts(c.Request.Context(), id)
		if errors.Is(err, domain.ErrNoChartData) {
			return nil
		}
		return err
	})
}

func (h *PageHandler) openPreset(c *gin.Context) {
	h.withEdits(c, "", func(id uuid.UUID) error {
		return h.Service.OpenPreset(c.Request.Context(), id)
	})
}

func (h *PageHandler) cancelPreset(c *gin.Context) {
	h.withSession(c, "", func(id uuid.UUID) error {
		return h.Service.CancelPreset(c.Request.Context(), id)
	})
}

func (h *PageHandler) unlockPreset(c *gin.Context) {
	h.withSession(c, "#charts", func(id uuid.UUID) error {
		_, err := h.Service.UnlockPreset(c.Request.Context(), id, c.PostForm("passphrase"))
		if errors.Is(err, domain.ErrIncorrectPassphrase) {
			return nil
		}
		return err
	})
}

func (h *PageHandler) timelineSVG(c *gin.Context) {
	h.serveSVG(c, func(buf *bytes.Buffer, charts *domain.ChartSet) error {
		return h.Renderer.Timeline(buf, charts.Timeline)
	})
}

func (h *PageHandler) cashflowSVG(c *gin.Context) {
	h.serveSVG(c, func(buf *bytes.Buffer, charts *domain.ChartSet) error {
		return h.Renderer.Cashflow(buf, charts.Cashflow)
	})
}

func (h *PageHandler) serveSVG(c *gin.Context, draw func(*bytes.Buffer, *domain.ChartSet) error) {
	id, err := sessionID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	charts, err := h.Service.Charts(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNoChartData) {
			c.Status(http.StatusNotFound)
			return
		}
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := draw(&buf, charts); err != nil {
		if errors.Is(err, domain.ErrNoChartData) {
			c.Status(http.StatusNotFound)
			return
		}
		h.fail(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

// withEdits saves the posted table before running action
func (h *PageHandler) withEdits(c *gin.Context, anchor string, action func(uuid.UUID) error) {
	h.withSession(c, anchor, func(id uuid.UUID) error {
		if err := h.Service.ApplyEdits(c.Request.Context(), id, formEdits(c)); err != nil {
			return err
		}
		return action(id)
	})
}

func (h *PageHandler) withSession(c *gin.Context, anchor string, action func(uuid.UUID) error) {
	id, err := sessionID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := action(id); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			// expired mid-request; the next page load starts a new session
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/"+anchor)
}

func (h *PageHandler) fail(c *gin.Context, err error) {
	status := httpStatus(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("page request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	_ = c.Error(err)
	c.String(status, errorMessage(err))
}

// formEdits reads inputs named like "company[<row id>]"
func formEdits(c *gin.Context) []domain.RecordEdit {
	var edits []domain.RecordEdit
	for _, field := range domain.Fields {
		for rawID, value := range c.PostFormMap(string(field)) {
			id, err := uuid.Parse(rawID)
			if err != nil {
				continue
			}
			edits = append(edits, domain.RecordEdit{RecordID: id, Field: field, Value: value})
		}
	}
	return edits
}
