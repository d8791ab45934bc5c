package telematics

// Calculator is the remote handle and display name of a calculator resource.
type Calculator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Position is the last-known location reported for a device.
type Position struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	RecordedAt int64   `json:"recorded_at"`
}

type positionsRequest struct {
	DeviceIDs []string `json:"device_ids"`
}
