package handlers

import (
	"context"
	"errors"
	"net/http"

	catalogRepo "choreify/database/repository/catalog"
	"choreify/middleware"
	"choreify/models"
	"choreify/services/booking"
	"choreify/services/pricing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ApplicationLookup finds a user's worker applications.
type ApplicationLookup interface {
	GetWorkerApplications(ctx context.Context, token, email string) ([]models.WorkerApplication, error)
}

// PageHandler renders the HTML views. Guards run before these handlers,
// so protected pages can rely on a session being present.
type PageHandler struct {
	Catalog      catalogRepo.CatalogRepository
	Booking      *booking.Service
	Applications ApplicationLookup
}

func NewPageHandler(catalog catalogRepo.CatalogRepository, bookingSvc *booking.Service, apps ApplicationLookup) *PageHandler {
	return &PageHandler{Catalog: catalog, Booking: bookingSvc, Applications: apps}
}

// pageData starts the template data every page shares.
func pageData(c *gin.Context, title string) gin.H {
	data := gin.H{"title": title, "readOnly": middleware.IsReadOnly(c)}
	if s := middleware.CurrentSession(c); s != nil {
		view := s.View()
		data["session"] = &view
	}
	return data
}

func (h *PageHandler) listings(c *gin.Context) []serviceListing {
	services, err := h.Catalog.List(c.Request.Context(), "")
	if err != nil {
		getLogger(c).Error("Failed to list services", zap.Error(err))
		return nil
	}
	out := make([]serviceListing, 0, len(services))
	for _, svc := range services {
		out = append(out, listing(svc))
	}
	return out
}

func (h *PageHandler) Home(c *gin.Context) {
	data := pageData(c, "")
	data["services"] = h.listings(c)
	c.HTML(http.StatusOK, "home.html", data)
}

func (h *PageHandler) Services(c *gin.Context) {
	data := pageData(c, "Services")
	data["services"] = h.listings(c)
	c.HTML(http.StatusOK, "services.html", data)
}

func (h *PageHandler) serviceBySlug(c *gin.Context) (*models.Service, bool) {
	svc, err := h.Catalog.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if !errors.Is(err, catalogRepo.ErrNotFound) {
			getLogger(c).Error("Failed to load service", zap.Error(err))
		}
		h.NotFound(c)
		return nil, false
	}
	return svc, true
}

func (h *PageHandler) Service(c *gin.Context) {
	svc, ok := h.serviceBySlug(c)
	if !ok {
		return
	}
	data := pageData(c, svc.Name)
	data["service"] = listing(*svc)
	c.HTML(http.StatusOK, "service.html", data)
}

func (h *PageHandler) Book(c *gin.Context) {
	svc, ok := h.serviceBySlug(c)
	if !ok {
		return
	}
	breakdown := pricing.CalculateServicePrice(svc, models.OptionSelection{}, models.BookingDetails{})
	data := pageData(c, "Book "+svc.Name)
	data["service"] = svc
	data["formatted"] = pricing.FormatAmount(breakdown.Total, breakdown.Currency)
	c.HTML(http.StatusOK, "book.html", data)
}

func (h *PageHandler) Login(c *gin.Context) {
	if s := middleware.CurrentSession(c); s != nil {
		c.Redirect(http.StatusFound, safeReturnTo(c.Query("returnTo"), defaultLanding(s.Role)))
		return
	}
	data := pageData(c, "Sign in")
	data["message"] = c.Query("message")
	data["returnTo"] = safeReturnTo(c.Query("returnTo"), "")
	c.HTML(http.StatusOK, "login.html", data)
}

func (h *PageHandler) Signup(c *gin.Context) {
	data := pageData(c, "Sign up")
	data["returnTo"] = safeReturnTo(c.Query("returnTo"), "")
	c.HTML(http.StatusOK, "signup.html", data)
}

func (h *PageHandler) Dashboard(c *gin.Context) {
	data := pageData(c, "Dashboard")
	if cart, err := h.Booking.GetCart(c.Request.Context(), middleware.CartID(c)); err == nil {
		data["cart"] = cart
	} else {
		getLogger(c).Warn("Failed to load cart", zap.Error(err))
	}
	c.HTML(http.StatusOK, "dashboard.html", data)
}

func (h *PageHandler) WorkerDashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "worker_dashboard.html", pageData(c, "Worker portal"))
}

func (h *PageHandler) WorkerApplicationStatus(c *gin.Context) {
	data := pageData(c, "Application status")
	s := middleware.CurrentSession(c)
	apps, err := h.Applications.GetWorkerApplications(c.Request.Context(), s.AccessToken, s.User.Email)
	if err != nil {
		getLogger(c).Warn("Failed to load worker applications", zap.Error(err))
		data["error"] = "We could not load your application right now."
	}
	for i := range apps {
		if latest, ok := data["application"].(*models.WorkerApplication); !ok || apps[i].CreatedAt.After(latest.CreatedAt) {
			data["application"] = &apps[i]
		}
	}
	c.HTML(http.StatusOK, "worker_application.html", data)
}

func (h *PageHandler) Admin(c *gin.Context) {
	data := pageData(c, "Admin")
	data["services"] = h.listings(c)
	c.HTML(http.StatusOK, "admin.html", data)
}

func (h *PageHandler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found.html", pageData(c, "Not found"))
}
