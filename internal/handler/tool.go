package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/toolscope/internal/apperror"
	"github.com/sakif/toolscope/internal/catalog"
	"github.com/sakif/toolscope/internal/model"
	"github.com/sakif/toolscope/internal/service"
)

// ToolHandler serves the directory: listing, detail, submission and the tag
// and category lookups.
type ToolHandler struct {
	tools  *service.ToolService
	browse *service.BrowseService
	saved  *service.SavedService
	logger *slog.Logger
}

// NewToolHandler creates a new ToolHandler.
func NewToolHandler(tools *service.ToolService, browse *service.BrowseService, saved *service.SavedService, logger *slog.Logger) *ToolHandler {
	return &ToolHandler{
		tools:  tools,
		browse: browse,
		saved:  saved,
		logger: logger,
	}
}

// FilterStateFromQuery builds a catalog.FilterState from URL query values.
//
// Facet parameters can repeat (?tag=a&tag=b) or carry a comma list
// (?tag=a,b). Category and pricing names are matched case-insensitively
// against the known values; anything else is kept verbatim, so it only
// matches tools that store exactly that string.
func FilterStateFromQuery(q url.Values) catalog.FilterState {
	state := catalog.FilterState{
		SearchQuery: q.Get("q"),
		SortKey:     catalog.ParseSortKey(q.Get("sort")),
	}

	for _, name := range listParam(q, "category") {
		category, ok := model.ParseCategory(name)
		if !ok {
			category = model.Category(name)
		}
		state.Categories = append(state.Categories, category)
	}
	for _, name := range listParam(q, "pricing") {
		pricing, ok := model.ParsePricing(name)
		if !ok {
			pricing = model.Pricing(name)
		}
		state.Pricing = append(state.Pricing, pricing)
	}
	state.Tags = listParam(q, "tag")

	return state
}

func listParam(q url.Values, key string) []string {
	var values []string
	for _, raw := range q[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

// HandleList returns the filtered and sorted directory.
//
// HTTP: GET /api/tools?q=&category=&pricing=&tag=&sort=
func (h *ToolHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	result, err := h.browse.Browse(r.Context(), FilterStateFromQuery(r.URL.Query()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type toolDetailResponse struct {
	Tool    model.Tool   `json:"tool"`
	Related []model.Tool `json:"related"`
	Saved   bool         `json:"saved"`
}

// HandleGetByID returns one tool with its related tools.
//
// HTTP: GET /api/tools/{id}
func (h *ToolHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, err := h.tools.Detail(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toolDetailResponse{
		Tool:    detail.Tool,
		Related: detail.Related,
		Saved:   h.saved.IsSaved(detail.Tool.ID),
	})
}

// decodeDraft reads a model.ToolDraft from the request body.
func (h *ToolHandler) decodeDraft(r *http.Request) (model.ToolDraft, error) {
	var draft model.ToolDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.logger.Warn("invalid tool JSON", slog.String("error", err.Error()))
		return draft, apperror.ValidationFailed("body", "Invalid JSON body")
	}
	return draft, nil
}

// HandleCreate submits a new tool.
//
// HTTP: POST /api/tools
// REQUEST BODY: the submit form, tags comma separated and features one per line:
//
//	{"name":"Quill","description":"...","category":"Writing","pricing":"Free",
//	 "website":"https://quill.example.com","logo":"https://quill.example.com/logo.png",
//	 "tags":"ai, grammar","features":"Rewrite\nGrammar check"}
func (h *ToolHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	draft, err := h.decodeDraft(r)
	if err != nil {
		writeError(w, err)
		return
	}

	tool, err := h.tools.Submit(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tool)
}

// HandleUpdate replaces a tool with a resubmitted form.
//
// HTTP: PUT /api/tools/{id}
func (h *ToolHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	draft, err := h.decodeDraft(r)
	if err != nil {
		writeError(w, err)
		return
	}

	tool, err := h.tools.Update(r.Context(), chi.URLParam(r, "id"), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tool)
}

// HandleDelete removes a tool.
//
// HTTP: DELETE /api/tools/{id}
func (h *ToolHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.tools.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTags returns every distinct tag, sorted.
//
// HTTP: GET /api/tags
func (h *ToolHandler) HandleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tools.AllTags(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// HandleCategories returns the six categories with live counts.
//
// HTTP: GET /api/categories
func (h *ToolHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.tools.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// HandleCategoryTools lists the tools of one category.
//
// HTTP: GET /api/categories/{name}/tools
func (h *ToolHandler) HandleCategoryTools(w http.ResponseWriter, r *http.Request) {
	tools, err := h.tools.ByCategory(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tools)
}
