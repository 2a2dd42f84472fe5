package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mrpolar777/Consulta-API/pkg/models"
)

// appID is the fixed application identifier the login endpoint expects.
const appID = "4"

// AuthError represents an authentication failure
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return e.Message
}

// Client talks to the Rastrosystem vehicle-tracking API using direct API calls.
// The token is written once by Login (or SetToken) and read by every
// subsequent call; it is never refreshed automatically.
type Client struct {
	baseURL  string
	http     *http.Client
	username string
	password string
	token    string
}

// New creates a new API client
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// NewWithCredentials creates a new API client carrying credentials for Login
func NewWithCredentials(baseURL string, timeout time.Duration, username, password string) *Client {
	c := New(baseURL, timeout)
	c.username = username
	c.password = password
	return c
}

// SetToken installs a previously obtained session token
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current session token, empty if not logged in
func (c *Client) Token() string {
	return c.token
}

// Login exchanges the configured credentials for a session token.
// Any outcome other than a 200 response carrying a token field is an
// *AuthError; credentials are never stored beyond this call's request.
func (c *Client) Login(ctx context.Context) (string, error) {
	if c.username == "" || c.password == "" {
		return "", &AuthError{Message: "no credentials configured"}
	}

	form := url.Values{}
	form.Set("login", c.username)
	form.Set("senha", c.password)
	form.Set("app", appID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login/", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &AuthError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("login failed (status %d): %s", resp.StatusCode, string(body)),
		}
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return "", &AuthError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("decoding login response: %v", err)}
	}
	if loginResp.Token == "" {
		return "", &AuthError{StatusCode: resp.StatusCode, Message: "login response carried no token"}
	}

	c.token = loginResp.Token
	return loginResp.Token, nil
}

// ListVehicles returns the vehicles visible to the given user account.
// A response without a dispositivos field yields an empty slice, not an error.
func (c *Client) ListVehicles(ctx context.Context, userID int64) ([]models.Vehicle, error) {
	reqURL := fmt.Sprintf("%s/veiculos/%d/", c.baseURL, userID)

	body, err := c.doAuthed(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	var vehiclesResp struct {
		Dispositivos []map[string]any `json:"dispositivos"`
	}
	if err := json.Unmarshal(body, &vehiclesResp); err != nil {
		return nil, fmt.Errorf("decoding vehicles response: %w", err)
	}

	vehicles := make([]models.Vehicle, 0, len(vehiclesResp.Dispositivos))
	for _, d := range vehiclesResp.Dispositivos {
		id := int64(toFloat(d["veiculo_id"], 0))
		if id == 0 {
			continue
		}
		vehicles = append(vehicles, models.Vehicle{ID: id})
	}

	return vehicles, nil
}

// historyRequest is the body of the history endpoint. The time window is
// always the full calendar day; the upstream has no narrower query.
type historyRequest struct {
	Data    string `json:"data"` // DD/MM/YYYY
	HoraIni string `json:"hora_ini"`
	HoraFim string `json:"hora_fim"`
	Veiculo int64  `json:"veiculo"`
}

// FetchHistory returns the ordered tracking records for one vehicle on the
// given date. A response without a veiculos field yields an empty slice.
func (c *Client) FetchHistory(ctx context.Context, vehicleID int64, date time.Time) ([]models.HistoryRecord, error) {
	payload, err := json.Marshal(historyRequest{
		Data:    date.Format("02/01/2006"),
		HoraIni: "00:00:00",
		HoraFim: "23:59:00",
		Veiculo: vehicleID,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding history request: %w", err)
	}

	body, err := c.doAuthed(ctx, http.MethodPost, c.baseURL+"/veiculo/historico/", payload)
	if err != nil {
		return nil, err
	}

	var historyResp struct {
		Veiculos []map[string]any `json:"veiculos"`
	}
	if err := json.Unmarshal(body, &historyResp); err != nil {
		return nil, fmt.Errorf("decoding history response: %w", err)
	}

	records := make([]models.HistoryRecord, 0, len(historyResp.Veiculos))
	for _, raw := range historyResp.Veiculos {
		records = append(records, models.HistoryRecord{
			VehicleName: toString(raw["name"]),
			Distance:    toFloat(raw["velocidade"], 0),
			Latitude:    toFloat(raw["latitude"], 0),
			Longitude:   toFloat(raw["longitude"], 0),
			ServerTime:  toString(raw["server_time"]),
			Ignition:    truthy(raw["ignition"]),
		})
	}

	return records, nil
}

// doAuthed performs a token-authenticated request and returns the response
// body. 401/403 map to *AuthError so callers can re-login deliberately.
func (c *Client) doAuthed(ctx context.Context, method, reqURL string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "token "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &AuthError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("authentication failed (status %d): %s", resp.StatusCode, string(body)),
		}
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return body, nil
}
