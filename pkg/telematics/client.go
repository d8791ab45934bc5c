package telematics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/haulpoint/fleetops-backend/pkg/config"
	pkgerrors "github.com/haulpoint/fleetops-backend/pkg/errors"
	"github.com/haulpoint/fleetops-backend/pkg/logger"
)

// CalculatorNameMaxLen is the platform-side limit on calculator names.
// Names longer than this are rejected remotely, so callers truncate first.
const CalculatorNameMaxLen = 100

var (
	errBaseURLRequired  = errors.New("telematics base url is required")
	errAPITokenRequired = errors.New("telematics api token is required")
	errLoggerRequired   = errors.New("telematics logger is required")
)

// Client exposes the telemetry platform primitives with centralized auth,
// logging, and error mapping. It carries no business logic.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiToken   string
	logger     *logger.Logger
}

// NewClient initializes the telematics wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.TelematicsConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	apiToken := strings.TrimSpace(cfg.APIToken)
	if apiToken == "" {
		return nil, errAPITokenRequired
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    baseURL,
		apiToken:   apiToken,
		logger:     logg,
	}

	logg.Info(ctx, "telematics client initialized")
	return c, nil
}

// AssignGeofence attaches a remote geofence to a remote device.
func (c *Client) AssignGeofence(ctx context.Context, remoteDeviceID, remoteGeofenceID string) error {
	op := "assign_geofence"
	c.log(ctx, "request", op, map[string]any{
		"remote_device_id":   remoteDeviceID,
		"remote_geofence_id": remoteGeofenceID,
	})

	path := fmt.Sprintf("/gw/devices/%s/geofences/%s", remoteDeviceID, remoteGeofenceID)
	if err := c.do(ctx, http.MethodPut, path, nil, nil); err != nil {
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return c.mapError(err, op)
	}

	c.log(ctx, "response", op, nil)
	return nil
}

// UnassignGeofence detaches a remote geofence from a remote device.
func (c *Client) UnassignGeofence(ctx context.Context, remoteDeviceID, remoteGeofenceID string) error {
	op := "unassign_geofence"
	c.log(ctx, "request", op, map[string]any{
		"remote_device_id":   remoteDeviceID,
		"remote_geofence_id": remoteGeofenceID,
	})

	path := fmt.Sprintf("/gw/devices/%s/geofences/%s", remoteDeviceID, remoteGeofenceID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return c.mapError(err, op)
	}

	c.log(ctx, "response", op, nil)
	return nil
}

// CreateCalculator instantiates a calculator resource from the given config
// document and returns its remote handle.
func (c *Client) CreateCalculator(ctx context.Context, cfg map[string]any) (*Calculator, error) {
	op := "create_calculator"
	c.log(ctx, "request", op, map[string]any{"name": cfg["name"]})

	var created Calculator
	if err := c.do(ctx, http.MethodPost, "/gw/calculators", cfg, &created); err != nil {
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return nil, c.mapError(err, op)
	}

	c.log(ctx, "response", op, map[string]any{"calculator_id": created.ID})
	return &created, nil
}

// DeleteCalculator removes the calculator resource behind the handle.
func (c *Client) DeleteCalculator(ctx context.Context, calculatorID string) error {
	op := "delete_calculator"
	c.log(ctx, "request", op, map[string]any{"calculator_id": calculatorID})

	path := fmt.Sprintf("/gw/calculators/%s", calculatorID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return c.mapError(err, op)
	}

	c.log(ctx, "response", op, nil)
	return nil
}

// BindCalculatorToDevice subscribes a device to an existing calculator.
func (c *Client) BindCalculatorToDevice(ctx context.Context, calculatorID, remoteDeviceID string) error {
	op := "bind_calculator"
	c.log(ctx, "request", op, map[string]any{
		"calculator_id":    calculatorID,
		"remote_device_id": remoteDeviceID,
	})

	path := fmt.Sprintf("/gw/calculators/%s/devices/%s", calculatorID, remoteDeviceID)
	if err := c.do(ctx, http.MethodPut, path, nil, nil); err != nil {
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return c.mapError(err, op)
	}

	c.log(ctx, "response", op, nil)
	return nil
}

// ListDeviceCalculators returns every calculator currently bound to the device.
func (c *Client) ListDeviceCalculators(ctx context.Context, remoteDeviceID string) ([]Calculator, error) {
	op := "list_device_calculators"
	c.log(ctx, "request", op, map[string]any{"remote_device_id": remoteDeviceID})

	var payload struct {
		Calculators []Calculator `json:"calculators"`
	}
	path := fmt.Sprintf("/gw/devices/%s/calculators", remoteDeviceID)
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return nil, c.mapError(err, op)
	}

	c.log(ctx, "response", op, map[string]any{"count": len(payload.Calculators)})
	return payload.Calculators, nil
}

// DevicePositions returns the last known position for each requested remote
// device id. Devices the platform has never heard from are absent from the map.
func (c *Client) DevicePositions(ctx context.Context, remoteDeviceIDs []string) (map[string]Position, error) {
	op := "device_positions"
	c.log(ctx, "request", op, map[string]any{"count": len(remoteDeviceIDs)})

	body := positionsRequest{DeviceIDs: remoteDeviceIDs}
	var payload struct {
		Positions map[string]Position `json:"positions"`
	}
	if err := c.do(ctx, http.MethodPost, "/gw/positions/last", body, &payload); err != nil {
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return nil, c.mapError(err, op)
	}

	c.log(ctx, "response", op, map[string]any{"count": len(payload.Positions)})
	return payload.Positions, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost {
		req.Header.Set("X-Idempotency-Key", uuid.NewString())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{status: resp.StatusCode, body: readErrorBody(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("telematics status %d", e.status)
	}
	return fmt.Sprintf("telematics status %d: %s", e.status, e.body)
}

func readErrorBody(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func (c *Client) mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	var typed *statusError
	if errors.As(err, &typed) {
		return pkgerrors.Wrap(domainCodeForStatus(typed.status), err, fmt.Sprintf("telematics %s failed", op))
	}
	// Transport-level failures (dial, timeout, context) count as unavailability.
	return pkgerrors.Wrap(pkgerrors.CodeRemoteUnavailable, err, fmt.Sprintf("telematics %s failed", op))
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeRemoteNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRemoteUnavailable
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeRemoteUnavailable
	}
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("telematics %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("telematics %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"token", "secret", "authorization"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}
