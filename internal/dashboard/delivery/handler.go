package delivery

import (
	"embed"
	"html/template"
	"net/http"

	authdomain "callboard/internal/auth/domain"
	calldomain "callboard/internal/call/domain"
	"callboard/internal/dashboard/domain"
	"callboard/internal/dashboard/usecase"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the page templates. Register them with gin.Engine.SetHTMLTemplate.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// card is one call record prepared for display.
type card struct {
	ID           string
	Transcript   string
	Summary      string
	RecordingURL string
	Status       string
	StartedAt    string
}

type page struct {
	UserName string
	Loading  bool
	Error    string
	Empty    bool
	Cards    []card
}

// DashboardHandler renders the Dashboard View.
type DashboardHandler struct {
	registry  *usecase.Registry
	formatter *DateFormatter
}

func NewDashboardHandler(registry *usecase.Registry, formatter *DateFormatter) *DashboardHandler {
	return &DashboardHandler{
		registry:  registry,
		formatter: formatter,
	}
}

// Landing renders the public home page.
// GET /
func (h *DashboardHandler) Landing(c *gin.Context) {
	c.HTML(http.StatusOK, "landing.html", nil)
}

// Show mounts the session's view on first visit and renders its state.
// GET /dashboard
func (h *DashboardHandler) Show(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	view := h.registry.Get(session.ID, session.Token)
	snap := view.Mount(c.Request.Context())
	h.render(c, session, snap)
}

// Refresh re-fetches the call list, then redirects back to the page.
// POST /dashboard/refresh
func (h *DashboardHandler) Refresh(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	view := h.registry.Get(session.ID, session.Token)
	view.Refresh(c.Request.Context())
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *DashboardHandler) render(c *gin.Context, session *authdomain.Session, snap domain.Snapshot) {
	layout := h.formatter.Layout(c.GetHeader("Accept-Language"))

	cards := make([]card, 0, len(snap.Records))
	for _, r := range snap.Records {
		cards = append(cards, toCard(r, h.formatter.Format(r, layout)))
	}

	data := page{
		Loading: snap.Loading,
		Error:   snap.Error,
		Empty:   snap.Empty(),
		Cards:   cards,
	}
	if session.User != nil {
		data.UserName = session.User.Name
		if data.UserName == "" {
			data.UserName = session.User.Email
		}
	}

	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, "dashboard.html", data)
}

func toCard(r calldomain.CallRecord, startedAt string) card {
	return card{
		ID:           r.ID,
		Transcript:   r.TranscriptText(),
		Summary:      r.SummaryText(),
		RecordingURL: r.RecordingURL,
		Status:       r.StatusText(),
		StartedAt:    startedAt,
	}
}

func sessionFrom(c *gin.Context) (*authdomain.Session, bool) {
	value, exists := c.Get("session")
	if !exists {
		return nil, false
	}
	session, ok := value.(*authdomain.Session)
	return session, ok && session != nil
}
