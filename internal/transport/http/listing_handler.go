package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/misrentas/misrentas-backend/internal/domain"
	"github.com/misrentas/misrentas-backend/internal/service"
	"github.com/misrentas/misrentas-backend/internal/util"
)

type ListingHandler struct {
	sync *service.SyncService
	form *service.ListingFormService
}

func RegisterListings(e *echo.Echo, sessions *service.SessionService, syncSvc *service.SyncService, formSvc *service.ListingFormService) {
	handler := &ListingHandler{sync: syncSvc, form: formSvc}

	public := e.Group("/api/v1")
	public.GET("/mode", handler.mode)
	public.GET("/categories", handler.categories)
	public.GET("/listings", handler.listListings)
	public.GET("/listings/:id", handler.getListing)
	public.GET("/listings/:id/contact-link", handler.contactLink)

	admin := e.Group("/api/v1/admin", RequireSession(sessions), RequireAdmin())
	admin.GET("/form", handler.getForm)
	admin.POST("/form", handler.openForm)
	admin.POST("/form/:id", handler.openFormForEdit)
	admin.PUT("/form", handler.updateForm)
	admin.DELETE("/form", handler.closeForm)
	admin.POST("/listings", handler.createListing)
	admin.PUT("/listings/:id", handler.updateListing)
	admin.DELETE("/listings/:id", handler.deleteListing)
}

func (h *ListingHandler) mode(c echo.Context) error {
	return c.JSON(http.StatusOK, util.Envelope{
		"demo":  h.sync.Demo(),
		"state": h.sync.State(),
	})
}

func (h *ListingHandler) categories(c echo.Context) error {
	return c.JSON(http.StatusOK, util.Data("categories", domain.Categories()))
}

func (h *ListingHandler) listListings(c echo.Context) error {
	items := h.sync.Snapshot()

	if raw := strings.TrimSpace(c.QueryParam("category")); raw != "" {
		category, err := domain.ParseCategory(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("unknown category"))
		}
		if category != domain.CategoryAll {
			filtered := make([]domain.Listing, 0, len(items))
			for _, item := range items {
				if item.Category == category {
					filtered = append(filtered, item)
				}
			}
			items = filtered
		}
	}

	return c.JSON(http.StatusOK, util.Data("listings", items))
}

func (h *ListingHandler) getListing(c echo.Context) error {
	listing, err := h.findListing(c.Param("id"))
	if err != nil {
		return h.writeListingError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("listing", listing))
}

func (h *ListingHandler) contactLink(c echo.Context) error {
	listing, err := h.findListing(c.Param("id"))
	if err != nil {
		return h.writeListingError(c, err)
	}
	if strings.TrimSpace(listing.HostPhone) == "" {
		return c.JSON(http.StatusUnprocessableEntity, util.Error("listing has no host contact"))
	}
	return c.JSON(http.StatusOK, util.Data("contact_link", ContactLink(listing.HostPhone, listing.Title)))
}

func (h *ListingHandler) getForm(c echo.Context) error {
	draft, open := h.form.Draft()
	return c.JSON(http.StatusOK, util.Envelope{"open": open, "draft": draft})
}

func (h *ListingHandler) openForm(c echo.Context) error {
	draft := h.form.Open()
	return c.JSON(http.StatusOK, util.Data("draft", draft))
}

func (h *ListingHandler) openFormForEdit(c echo.Context) error {
	listing, err := h.findListing(c.Param("id"))
	if err != nil {
		return h.writeListingError(c, err)
	}
	draft := h.form.OpenForEdit(*listing)
	return c.JSON(http.StatusOK, util.Data("draft", draft))
}

func (h *ListingHandler) updateForm(c echo.Context) error {
	var draft domain.ListingDraft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	h.form.SetDraft(draft)
	return c.JSON(http.StatusOK, util.Data("draft", draft))
}

func (h *ListingHandler) closeForm(c echo.Context) error {
	h.form.Close()
	return c.NoContent(http.StatusNoContent)
}

func (h *ListingHandler) createListing(c echo.Context) error {
	var draft domain.ListingDraft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	draft.EditingID = nil

	result, err := h.form.Submit(c.Request().Context(), draft)
	if err != nil {
		return h.writeSubmitError(c, err)
	}
	if result.Superseded {
		return c.JSON(http.StatusOK, util.Message("submission superseded"))
	}
	return c.JSON(http.StatusCreated, util.Data("id", result.ID))
}

func (h *ListingHandler) updateListing(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid listing id"))
	}

	var draft domain.ListingDraft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	draft.EditingID = &id

	result, err := h.form.Submit(c.Request().Context(), draft)
	if err != nil {
		return h.writeSubmitError(c, err)
	}
	if result.Superseded {
		return c.JSON(http.StatusOK, util.Message("submission superseded"))
	}
	return c.JSON(http.StatusOK, util.Data("id", result.ID))
}

func (h *ListingHandler) deleteListing(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid listing id"))
	}

	if err := h.form.Delete(c.Request().Context(), id); err != nil {
		return h.writeSubmitError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// findListing resolves an id against the synchronizer's current collection;
// the view layer never reads the store directly.
func (h *ListingHandler) findListing(rawID string) (*domain.Listing, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, errInvalidListingID
	}
	for _, item := range h.sync.Snapshot() {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, service.ErrListingNotFound
}

var errInvalidListingID = errors.New("invalid listing id")

func (h *ListingHandler) writeListingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, errInvalidListingID):
		return c.JSON(http.StatusBadRequest, util.Error("invalid listing id"))
	case errors.Is(err, service.ErrListingNotFound):
		return c.JSON(http.StatusNotFound, util.Error("listing not found"))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load listing"))
	}
}

func (h *ListingHandler) writeSubmitError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrDemoMode):
		return c.JSON(http.StatusConflict, util.Message("demo mode: changes are not persisted"))
	case errors.Is(err, service.ErrDraftValidation):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrListingNotFound):
		return c.JSON(http.StatusNotFound, util.Error("listing not found"))
	case errors.Is(err, service.ErrWriteFailed):
		return c.JSON(http.StatusBadGateway, util.Error("unable to save: check your connection or permissions"))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("unexpected error"))
	}
}
