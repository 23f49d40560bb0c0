package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"devicehub-api/internal/service"
)

// ProductHandler は製品CRUDのエンドポイントを処理します
type ProductHandler struct {
	svc *service.DeviceService
}

func NewProductHandler(s *service.DeviceService) *ProductHandler { return &ProductHandler{svc: s} }

type productRequest struct {
	Model    string `json:"model"`
	Name     string `json:"name"`
	Describe string `json:"describe"`
}

func (r productRequest) validate() error {
	if err := validateRequired("model", r.Model); err != nil {
		return err
	}
	return validateRequired("name", r.Name)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in productRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.svc.CreateProduct(r.Context(), in.Model, in.Name, in.Describe)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.GetProduct(r.Context(), normalizeID(chi.URLParam(r, "productId")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context(), queryInt(r, "page", 1), queryInt(r, "perPage", 30))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	productId := normalizeID(chi.URLParam(r, "productId"))
	var in productRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.svc.UpdateProduct(r.Context(), productId, in.Model, in.Name, in.Describe)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(r.Context(), normalizeID(chi.URLParam(r, "productId"))); err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
