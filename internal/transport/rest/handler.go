// Package rest provides HTTP handlers for pet-related operations.
package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	peterrors "github.com/abgdnv/petstore/internal/errors"
	"github.com/abgdnv/petstore/internal/service"
	"github.com/abgdnv/petstore/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// ServiceBanner is served at the root path.
const ServiceBanner = "Pet Demo REST API Service"

type Handler struct {
	service  service.PetService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the pet API with the provided service.
func NewHandler(service service.PetService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the pet service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/", h.Index)

	r.Route("/pets", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
			r.Delete("/", h.DeleteByID)
			r.Put("/purchase", h.Purchase)
		})
	})

	r.Get("/healthz", h.HealthCheck)

	// Registered last so chi propagates them to the subrouters above.
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)
}

// Index serves a static banner describing the service.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, map[string]string{
		"name":    ServiceBanner,
		"version": "1.0",
		"pets":    "/pets",
	})
}

// List retrieves all pets, or a filtered subset when one of the query
// parameters name, category, available or gender is present. The first
// recognized parameter wins; exactly one store lookup is issued.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	query := r.URL.Query()

	var list []service.PetDto
	var err error
	switch {
	case query.Has("name"):
		list, err = h.service.FindByName(r.Context(), query.Get("name"))
	case query.Has("category"):
		list, err = h.service.FindByCategory(r.Context(), query.Get("category"))
	case query.Has("available"):
		list, err = h.service.FindByAvailability(r.Context(), strings.EqualFold(query.Get("available"), "true"))
	case query.Has("gender"):
		list, err = h.service.FindByGender(r.Context(), query.Get("gender"))
	default:
		list, err = h.service.FindAll(r.Context())
	}
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving pet list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch pets")
		return
	}
	// A nil slice with a nil error means the store misbehaved; fail at the
	// boundary instead of encoding an unexpected result.
	if list == nil {
		mLogger.ErrorContext(r.Context(), "Store returned no result and no error")
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Store returned an unexpected result")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved pet list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindByID retrieves a pet by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := r.PathValue("id")

	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, peterrors.ErrPetNotFound) {
			mLogger.WarnContext(r.Context(), "Pet not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Pet with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving pet", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve pet with ID %s", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Create handles the creation of a new pet from a JSON or URL-encoded form
// body. Missing, unsupported or empty bodies are all rejected with 400.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)

	var dto service.PetCreateDto
	switch mediaType(r) {
	case "":
		web.RespondError(w, mLogger, http.StatusBadRequest, "Content-Type must be set")
		return
	case web.ContentTypeJSON:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			mLogger.ErrorContext(r.Context(), "Error reading request body", "error", err)
			web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
			return
		}
		if len(bytes.TrimSpace(body)) == 0 {
			web.RespondError(w, mLogger, http.StatusBadRequest, "Request body is empty")
			return
		}
		if err := json.Unmarshal(body, &dto); err != nil {
			mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
			web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	case web.ContentTypeForm:
		if err := r.ParseForm(); err != nil {
			web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid form body")
			return
		}
		var err error
		dto, err = service.FromForm(r.PostForm)
		if err != nil {
			mLogger.WarnContext(r.Context(), "Error parsing form body", "error", err)
			web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid form body: "+err.Error())
			return
		}
	default:
		// Unlike update, an unsupported create content type is a plain
		// bad request. Inherited behavior, kept as-is.
		web.RespondError(w, mLogger, http.StatusBadRequest, "Content-Type must be "+web.ContentTypeJSON+" or "+web.ContentTypeForm)
		return
	}

	if !h.validateDto(w, r, mLogger, dto) {
		return
	}

	created, err := h.service.Create(r.Context(), dto)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error creating pet", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create pet")
		return
	}
	mLogger.InfoContext(r.Context(), "Pet created successfully", "ID", created.ID, "Name", created.Name)
	w.Header().Set("Location", "/pets/"+created.ID)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// Update replaces all fields of an existing pet. Only JSON bodies are
// accepted: a missing content type is a 400, any other type a 415.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := r.PathValue("id")

	switch mediaType(r) {
	case "":
		web.RespondError(w, mLogger, http.StatusBadRequest, "Content-Type must be set")
		return
	case web.ContentTypeJSON:
	default:
		web.RespondError(w, mLogger, http.StatusUnsupportedMediaType, "Content-Type must be "+web.ContentTypeJSON)
		return
	}

	// Reject unknown IDs before validating the body.
	if _, err := h.service.FindByID(r.Context(), id); err != nil {
		if errors.Is(err, peterrors.ErrPetNotFound) {
			mLogger.WarnContext(r.Context(), "Pet not found for update", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Pet with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving pet for update", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to update pet with ID %s", id))
		return
	}

	var dto service.PetCreateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if !h.validateDto(w, r, mLogger, dto) {
		return
	}

	updated, err := h.service.Update(r.Context(), id, dto)
	if err != nil {
		if errors.Is(err, peterrors.ErrPetNotFound) {
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Pet with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating pet", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to update pet with ID %s", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Pet updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteByID deletes a pet by its ID. The operation is idempotent: deleting
// an ID that does not exist still returns 204.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := r.PathValue("id")

	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		mLogger.ErrorContext(r.Context(), "Error deleting pet", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete pet with ID %s", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Pet deleted", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// Purchase marks a pet as no longer available.
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := r.PathValue("id")

	purchased, err := h.service.Purchase(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, peterrors.ErrPetNotFound):
			mLogger.WarnContext(r.Context(), "Pet not found for purchase", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Pet with ID %s not found", id))
		case errors.Is(err, peterrors.ErrPetNotAvailable):
			mLogger.WarnContext(r.Context(), "Pet not available for purchase", "ID", id)
			web.RespondError(w, mLogger, http.StatusConflict, fmt.Sprintf("Pet with ID %s is not available", id))
		default:
			mLogger.ErrorContext(r.Context(), "Error purchasing pet", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to purchase pet with ID %s", id))
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Pet purchased", "ID", purchased.ID)
	web.RespondJSON(w, mLogger, http.StatusOK, purchased)
}

// NotFound responds to unknown paths with a JSON error body.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	web.RespondError(w, h.loggerWithReqID(r), http.StatusNotFound, fmt.Sprintf("Path %s not found", r.URL.Path))
}

// MethodNotAllowed responds to unmapped methods on known paths.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	web.RespondError(w, h.loggerWithReqID(r), http.StatusMethodNotAllowed, fmt.Sprintf("Method %s is not allowed on %s", r.Method, r.URL.Path))
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// validateDto runs struct validation and writes the 400 response on failure.
func (h *Handler) validateDto(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, dto service.PetCreateDto) bool {
	if err := h.validate.Struct(dto); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			details := make([]string, 0, len(validationErrors))
			for _, fieldErr := range validationErrors {
				details = append(details, fieldErr.Field()+" failed on rule: "+fieldErr.Tag())
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", details)
			web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid pet: "+strings.Join(details, "; "))
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// mediaType returns the media type of the request without parameters, or
// the empty string when the header is absent.
func mediaType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ct
	}
	return mt
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
