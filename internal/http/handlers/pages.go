package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bazaarlane/admin-backend/internal/platform/ctxutil"
)

// PageHandler serves the dashboard page shells. The SPA hydrates them
// client-side; the server's job is only to decide whether the shell is
// served at all, which the gate has done by the time these run.
type PageHandler struct{}

func NewPageHandler() *PageHandler { return &PageHandler{} }

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head><title>{{.Title}} · BazaarLane Admin</title></head>
<body>
<div id="root" data-page="{{.Page}}"{{if .Email}} data-user="{{.Email}}"{{end}}></div>
<script src="/assets/app.js"></script>
</body>
</html>
`))

func (h *PageHandler) render(c *gin.Context, page, title string) {
	email := ""
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		email = rd.Email
	}
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	_ = pageTmpl.Execute(c.Writer, gin.H{"Page": page, "Title": title, "Email": email})
}

func (h *PageHandler) Dashboard(c *gin.Context) { h.render(c, "dashboard", "Dashboard") }
func (h *PageHandler) Orders(c *gin.Context)    { h.render(c, "orders", "Orders") }
func (h *PageHandler) Products(c *gin.Context)  { h.render(c, "products", "Products") }
func (h *PageHandler) Users(c *gin.Context)     { h.render(c, "users", "Users") }
func (h *PageHandler) Settings(c *gin.Context)  { h.render(c, "settings", "Settings") }
func (h *PageHandler) Login(c *gin.Context)     { h.render(c, "login", "Sign in") }
func (h *PageHandler) Setup(c *gin.Context)     { h.render(c, "setup", "Setup") }
