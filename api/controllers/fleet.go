package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/haulpoint/fleetops-backend/api/responses"
	"github.com/haulpoint/fleetops-backend/internal/fleet"
	"github.com/haulpoint/fleetops-backend/pkg/db/models"
	pkgerrors "github.com/haulpoint/fleetops-backend/pkg/errors"
	"github.com/haulpoint/fleetops-backend/pkg/logger"
)

type deviceResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	RemoteDeviceID string    `json:"remote_device_id,omitempty"`
	Category       string    `json:"category,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type zoneResponse struct {
	ID               int64  `json:"id"`
	OperationID      int64  `json:"operation_id"`
	Name             string `json:"name"`
	Kind             string `json:"kind"`
	RemoteGeofenceID string `json:"remote_geofence_id,omitempty"`

	IdealQueueDurationMinutes   *int `json:"ideal_queue_duration_minutes,omitempty"`
	MaxVehicleCount             *int `json:"max_vehicle_count,omitempty"`
	IdealLoadingDurationMinutes *int `json:"ideal_loading_duration_minutes,omitempty"`
	IdealDumpingDurationMinutes *int `json:"ideal_dumping_duration_minutes,omitempty"`
	MaxSpeedKmh                 *int `json:"max_speed_kmh,omitempty"`
}

func toZoneResponse(zone models.Zone) zoneResponse {
	zone.MetadataForKind()
	return zoneResponse{
		ID:                          zone.ID,
		OperationID:                 zone.OperationID,
		Name:                        zone.Name,
		Kind:                        zone.Kind.String(),
		RemoteGeofenceID:            zone.RemoteGeofenceID,
		IdealQueueDurationMinutes:   zone.IdealQueueDurationMinutes,
		MaxVehicleCount:             zone.MaxVehicleCount,
		IdealLoadingDurationMinutes: zone.IdealLoadingDurationMinutes,
		IdealDumpingDurationMinutes: zone.IdealDumpingDurationMinutes,
		MaxSpeedKmh:                 zone.MaxSpeedKmh,
	}
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+key)
	}
	return id, nil
}

// DeviceGet handles GET /api/v1/devices/{deviceID}.
func DeviceGet(repo *fleet.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "deviceID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		device, err := repo.FindDeviceByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "device not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, deviceResponse{
			ID:             device.ID,
			Name:           device.Name,
			RemoteDeviceID: device.RemoteDeviceID,
			Category:       device.Category,
			CreatedAt:      device.CreatedAt,
		})
	}
}

// OperationZonesList handles GET /api/v1/operations/{operationID}/zones.
func OperationZonesList(repo *fleet.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		operationID, err := parseIDParam(r, "operationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := repo.FindOperationByID(r.Context(), operationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "operation not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		zones, err := repo.ListZonesByOperation(r.Context(), operationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]zoneResponse, 0, len(zones))
		for _, zone := range zones {
			out = append(out, toZoneResponse(zone))
		}
		responses.WriteSuccess(w, out)
	}
}
