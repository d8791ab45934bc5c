package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/haulpoint/fleetops-backend/api/responses"
	"github.com/haulpoint/fleetops-backend/api/validators"
	"github.com/haulpoint/fleetops-backend/internal/assignments"
	"github.com/haulpoint/fleetops-backend/pkg/db/models"
	pkgerrors "github.com/haulpoint/fleetops-backend/pkg/errors"
	"github.com/haulpoint/fleetops-backend/pkg/logger"
)

type bindingCreateRequest struct {
	DeviceID    int64  `json:"device_id" validate:"required,gt=0"`
	OperationID int64  `json:"operation_id" validate:"required,gt=0"`
	ZoneID      *int64 `json:"zone_id" validate:"omitempty,gt=0"`
}

type bindingResponse struct {
	ID              int64      `json:"id"`
	DeviceID        int64      `json:"device_id"`
	OperationID     int64      `json:"operation_id"`
	EffectiveZoneID int64      `json:"effective_zone_id"`
	CompletedAt     *time.Time `json:"completed_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toBindingResponse(binding *models.Binding) bindingResponse {
	return bindingResponse{
		ID:              binding.ID,
		DeviceID:        binding.DeviceID,
		OperationID:     binding.OperationID,
		EffectiveZoneID: binding.EffectiveZoneID,
		CompletedAt:     binding.CompletedAt,
		CreatedAt:       binding.CreatedAt,
	}
}

type positionResponse struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	RecordedAt int64   `json:"recorded_at"`
}

type bindingViewResponse struct {
	ID                int64             `json:"id"`
	DeviceID          int64             `json:"device_id"`
	DeviceName        string            `json:"device_name"`
	OperationID       int64             `json:"operation_id"`
	OperationName     string            `json:"operation_name"`
	EffectiveZoneID   int64             `json:"effective_zone_id"`
	EffectiveZoneName string            `json:"effective_zone_name"`
	CompletedAt       *time.Time        `json:"completed_at"`
	CreatedAt         time.Time         `json:"created_at"`
	Position          *positionResponse `json:"position,omitempty"`
}

func toBindingViewResponse(view assignments.BindingView) bindingViewResponse {
	out := bindingViewResponse{
		ID:                view.ID,
		DeviceID:          view.DeviceID,
		DeviceName:        view.DeviceName,
		OperationID:       view.OperationID,
		OperationName:     view.OperationName,
		EffectiveZoneID:   view.EffectiveZoneID,
		EffectiveZoneName: view.EffectiveZoneName,
		CompletedAt:       view.CompletedAt,
		CreatedAt:         view.CreatedAt,
	}
	if view.Position != nil {
		out.Position = &positionResponse{
			Latitude:   view.Position.Latitude,
			Longitude:  view.Position.Longitude,
			RecordedAt: view.Position.RecordedAt,
		}
	}
	return out
}

// BindingCreate handles POST /api/v1/bindings.
func BindingCreate(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		var req bindingCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		binding, err := svc.CreateBinding(r.Context(), assignments.CreateBindingInput{
			DeviceID:    req.DeviceID,
			OperationID: req.OperationID,
			ZoneID:      req.ZoneID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toBindingResponse(binding))
	}
}

// BindingDelete handles DELETE /api/v1/bindings?device_id=&zone_id=.
func BindingDelete(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		deviceID, err := validators.ParseQueryInt64(r, "device_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		zoneID, err := validators.ParseQueryInt64(r, "zone_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteBinding(r.Context(), deviceID, zoneID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// BindingList handles GET /api/v1/bindings?operation_id=.
func BindingList(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		operationID, err := validators.ParseOptionalQueryInt64(r, "operation_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListBindings(r.Context(), operationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]bindingViewResponse, 0, len(views))
		for _, view := range views {
			out = append(out, toBindingViewResponse(view))
		}
		responses.WriteSuccess(w, out)
	}
}

// BindingComplete handles POST /api/v1/bindings/{bindingID}/complete.
func BindingComplete(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		bindingID, err := strconv.ParseInt(chi.URLParam(r, "bindingID"), 10, 64)
		if err != nil || bindingID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid binding id"))
			return
		}

		ok, err := svc.MarkCompleted(r.Context(), bindingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "binding not found or already completed"))
			return
		}

		responses.WriteSuccess(w, map[string]bool{"completed": true})
	}
}
