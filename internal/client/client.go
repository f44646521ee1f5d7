package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/clinicore/clinic-scheduler/internal/api/dto"
	"github.com/clinicore/clinic-scheduler/internal/domain"
	"github.com/clinicore/clinic-scheduler/internal/service"
)

// APIError is a failed API call result after envelope decoding.
type APIError struct {
	Status  int
	Message string
	// Recovered is set when the recovery coordinator absorbed the failure;
	// the caller treats the operation as not completed and stays quiet.
	Recovered bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// Client is a typed client for one role surface. Every failed call is routed
// through the recovery coordinator before it reaches the caller.
type Client struct {
	baseURL  string
	role     domain.Role
	http     *http.Client
	store    *SessionStore
	recovery *RecoveryCoordinator
}

// NewClient constructs a client for the given role.
func NewClient(baseURL string, role domain.Role, store *SessionStore, recovery *RecoveryCoordinator) *Client {
	return &Client{
		baseURL:  baseURL,
		role:     role,
		http:     &http.Client{Timeout: 30 * time.Second},
		store:    store,
		recovery: recovery,
	}
}

type envelope struct {
	Success      bool                    `json:"success"`
	Message      string                  `json:"message"`
	Token        string                  `json:"token"`
	Appointments []dto.AppointmentView   `json:"appointments"`
	Appointment  *dto.AppointmentView    `json:"appointment"`
	Doctors      []dto.DoctorProfileView `json:"doctors"`
	DashData     json.RawMessage         `json:"dashData"`
	ProfileData  json.RawMessage         `json:"profileData"`
}

// Login authenticates against the role's login endpoint and stores the
// returned token write-through.
func (c *Client) Login(ctx context.Context, email, password string) error {
	env, err := c.do(ctx, http.MethodPost, c.rolePath("login"), dto.LoginRequest{Email: email, Password: password}, false)
	if err != nil {
		return err
	}
	return c.store.Set(c.role, env.Token)
}

// Logout clears the stored session for the role.
func (c *Client) Logout() error {
	return c.store.Clear(c.role)
}

// ListAppointments fetches the role-appropriate appointment list.
func (c *Client) ListAppointments(ctx context.Context) ([]dto.AppointmentView, error) {
	env, err := c.do(ctx, http.MethodGet, c.rolePath("appointments"), nil, true)
	if err != nil {
		return nil, err
	}
	return env.Appointments, nil
}

// CompleteAppointment marks an appointment completed.
func (c *Client) CompleteAppointment(ctx context.Context, appointmentID string) error {
	_, err := c.do(ctx, http.MethodPost, c.rolePath("complete-appointment"), dto.AppointmentActionRequest{AppointmentID: appointmentID}, true)
	return err
}

// CancelAppointment cancels an appointment.
func (c *Client) CancelAppointment(ctx context.Context, appointmentID string) error {
	_, err := c.do(ctx, http.MethodPost, c.rolePath("cancel-appointment"), dto.AppointmentActionRequest{AppointmentID: appointmentID}, true)
	return err
}

// BookAppointment books an appointment. Patient surface only.
func (c *Client) BookAppointment(ctx context.Context, docID, slotDate, slotTime string) (*dto.AppointmentView, error) {
	env, err := c.do(ctx, http.MethodPost, c.rolePath("book-appointment"), dto.BookAppointmentRequest{
		DoctorID: docID,
		SlotDate: slotDate,
		SlotTime: slotTime,
	}, true)
	if err != nil {
		return nil, err
	}
	return env.Appointment, nil
}

// DoctorDashboard fetches the doctor dashboard summary.
func (c *Client) DoctorDashboard(ctx context.Context) (*service.DoctorDashboard, error) {
	env, err := c.do(ctx, http.MethodGet, c.rolePath("dashboard"), nil, true)
	if err != nil {
		return nil, err
	}
	var dash service.DoctorDashboard
	if err := json.Unmarshal(env.DashData, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}

// DoctorProfile fetches the doctor profile.
func (c *Client) DoctorProfile(ctx context.Context) (*dto.DoctorProfileView, error) {
	env, err := c.do(ctx, http.MethodGet, c.rolePath("profile"), nil, true)
	if err != nil {
		return nil, err
	}
	var profile dto.DoctorProfileView
	if err := json.Unmarshal(env.ProfileData, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateDoctorProfile updates the doctor profile.
func (c *Client) UpdateDoctorProfile(ctx context.Context, req dto.UpdateDoctorProfileRequest) error {
	_, err := c.do(ctx, http.MethodPost, c.rolePath("update-profile"), req, true)
	return err
}

func (c *Client) rolePath(op string) string {
	segment := map[domain.Role]string{
		domain.RoleAdmin:   "admin",
		domain.RoleDoctor:  "doctor",
		domain.RolePatient: "user",
	}[c.role]
	return fmt.Sprintf("/api/%s/%s", segment, op)
}

func (c *Client) do(ctx context.Context, method, path string, body any, withAuth bool) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withAuth {
		if token, ok := c.store.Get(c.role); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode, Message: env.Message}
		if c.recovery != nil {
			apiErr.Recovered = c.recovery.HandleFailure(c.role, resp.StatusCode, env.Message)
		}
		return nil, apiErr
	}
	return &env, nil
}
