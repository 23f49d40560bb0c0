package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"devicehub-api/internal/service"
)

// DeviceHandler はデバイスCRUDのエンドポイントを処理します
type DeviceHandler struct {
	svc *service.DeviceService
}

func NewDeviceHandler(s *service.DeviceService) *DeviceHandler { return &DeviceHandler{svc: s} }

type deviceRequest struct {
	UUID      string `json:"uuid"`
	ProductID string `json:"productId"`
	Status    *bool  `json:"status"`
}

func (r deviceRequest) validate() error {
	return validateRequired("uuid", r.UUID)
}

func (h *DeviceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in deviceRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	device, err := h.svc.CreateDevice(r.Context(), in.UUID, normalizeID(in.ProductID))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, device)
}

func (h *DeviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	device, err := h.svc.GetDevice(r.Context(), normalizeID(chi.URLParam(r, "deviceId")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, device)
}

func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	devices, err := h.svc.ListDevices(r.Context(), queryInt(r, "page", 1), queryInt(r, "perPage", 30))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, devices)
}

func (h *DeviceHandler) Update(w http.ResponseWriter, r *http.Request) {
	deviceId := normalizeID(chi.URLParam(r, "deviceId"))
	var in deviceRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	status := true
	if in.Status != nil {
		status = *in.Status
	}

	device, err := h.svc.UpdateDevice(r.Context(), deviceId, in.UUID, normalizeID(in.ProductID), status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, device)
}

func (h *DeviceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteDevice(r.Context(), normalizeID(chi.URLParam(r, "deviceId"))); err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
