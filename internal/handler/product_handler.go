package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"inventory-api/internal/model"
	"inventory-api/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// ProductHandler handles product and stock HTTP requests.
type ProductHandler struct {
	service service.InventoryService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.InventoryService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// Create handles POST /products requests.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.ProductInput
	if !h.decode(w, r, &input) {
		return
	}

	product, err := h.service.CreateProduct(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// List handles GET /products requests with pagination.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.queryInt(w, r, "limit")
	if !ok {
		return
	}
	offset, ok := h.queryInt(w, r, "offset")
	if !ok {
		return
	}

	products, err := h.service.ListProducts(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// Get handles GET /products/{id} requests.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Replace handles PUT /products/{id} requests. Every field is overwritten;
// omitted numeric fields become zero.
func (h *ProductHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var input model.ProductInput
	if !h.decode(w, r, &input) {
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), mux.Vars(r)["id"], input.AsUpdate())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Patch handles PATCH /products/{id} requests. Only fields present in the
// body are changed.
func (h *ProductHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var update model.ProductUpdate
	if !h.decode(w, r, &update) {
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), mux.Vars(r)["id"], update)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /products/{id} requests.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddStock handles POST /products/{id}/add_stock requests.
func (h *ProductHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	quantity, ok := h.stockQuantity(w, r)
	if !ok {
		return
	}

	product, err := h.service.AddStock(r.Context(), mux.Vars(r)["id"], quantity)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// RemoveStock handles POST /products/{id}/remove_stock requests.
func (h *ProductHandler) RemoveStock(w http.ResponseWriter, r *http.Request) {
	quantity, ok := h.stockQuantity(w, r)
	if !ok {
		return
	}

	product, err := h.service.RemoveStock(r.Context(), mux.Vars(r)["id"], quantity)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// LowStock handles GET /products/low_stock requests.
func (h *ProductHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListLowStock(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// decode reads the JSON body into dst, answering 400 INVALID_JSON on failure.
func (h *ProductHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("invalid request body")
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return false
	}
	return true
}

// stockQuantity decodes a StockRequest and returns its integer quantity.
func (h *ProductHandler) stockQuantity(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req model.StockRequest
	if !h.decode(w, r, &req) {
		return 0, false
	}

	quantity, err := req.Quantity.Int()
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return 0, false
	}
	return quantity, true
}

// queryInt parses an optional integer query parameter. Absent means zero.
func (h *ProductHandler) queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidationFailed, "invalid "+name+" parameter", h.logger)
		return 0, false
	}
	return value, true
}
