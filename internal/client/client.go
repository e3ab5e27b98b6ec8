// Package client is the form client of the relay: it checks required
// fields, submits one request at a time and keeps the view to display.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"rhai/internal/domain"
)

// ErrSubmissionInProgress is returned when Submit is called while a
// previous submission has not completed.
var ErrSubmissionInProgress = errors.New("submission already in progress")

// State is the form's position in the submission lifecycle.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateDisplaying
	StateErrorDisplayed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateDisplaying:
		return "displaying"
	case StateErrorDisplayed:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	// HintRetry accompanies every error panel.
	HintRetry = "Vérifiez votre connexion internet et réessayez. Si le problème persiste, contactez l'administrateur."

	msgUnreachable   = "Impossible de contacter le serveur de génération."
	msgBadResponse   = "Réponse du serveur invalide."
	msgEmptyDocument = "Le serveur n'a renvoyé aucun document."
	msgMissingFields = "Veuillez remplir les champs obligatoires : %s"

	generatePath = "/generate-document"
)

// requiredFields are checked in display order before any network call.
var requiredFields = []struct {
	label string
	value func(*domain.DocumentRequest) string
}{
	{"type de document", func(r *domain.DocumentRequest) string { return string(r.DocumentType) }},
	{"nom de l'entreprise", func(r *domain.DocumentRequest) string { return r.CompanyName }},
	{"nom du salarié", func(r *domain.DocumentRequest) string { return r.EmployeeName }},
	{"poste", func(r *domain.DocumentRequest) string { return r.Position }},
	{"salaire", func(r *domain.DocumentRequest) string { return r.Salary }},
}

// View is what the form shows after a submission.
type View struct {
	State        State
	Title        string
	DocumentType domain.DocumentType
	EmployeeName string
	Document     string
	Metadata     *domain.DocumentMetadata
	Error        string
	Suggestion   string
	Hint         string
}

// Option configures a FormClient.
type Option func(*FormClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *FormClient) { c.httpClient = hc }
}

// WithBearerToken sends the token on generation requests.
func WithBearerToken(token string) Option {
	return func(c *FormClient) { c.token = token }
}

// FormClient submits document requests to the relay.
type FormClient struct {
	baseURL    string
	httpClient *http.Client
	token      string

	mu    sync.Mutex
	state State
	view  *View
}

// New creates a FormClient for the relay at baseURL.
func New(baseURL string, opts ...Option) *FormClient {
	c := &FormClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *FormClient) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View returns the panel currently displayed, or nil when idle.
func (c *FormClient) View() *View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Dismiss closes the displayed panel and returns the form to idle.
// It has no effect while a submission is running.
func (c *FormClient) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSubmitting {
		return
	}
	c.state = StateIdle
	c.view = nil
}

// Submit validates req, calls the relay and returns the resulting view.
// Failures are reported in the view; the only error returned is
// ErrSubmissionInProgress.
func (c *FormClient) Submit(ctx context.Context, req domain.DocumentRequest) (*View, error) {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	if missing := missingFields(&req); len(missing) > 0 {
		v := errorView(fmt.Sprintf(msgMissingFields, strings.Join(missing, ", ")), "")
		c.state, c.view = v.State, v
		c.mu.Unlock()
		return v, nil
	}
	c.state, c.view = StateSubmitting, nil
	c.mu.Unlock()

	result, err := c.generate(ctx, &req)

	var v *View
	switch {
	case err != nil:
		v = errorView(err.Error(), "")
	case !result.Success:
		v = errorView(result.Error, result.Suggestion)
	case strings.TrimSpace(result.Document) == "":
		v = errorView(msgEmptyDocument, "")
	default:
		v = &View{
			State:        StateDisplaying,
			Title:        req.DocumentType.Label(),
			DocumentType: req.DocumentType,
			EmployeeName: strings.TrimSpace(req.EmployeeName),
			Document:     result.Document,
			Metadata:     result.Metadata,
		}
	}

	c.mu.Lock()
	c.state, c.view = v.State, v
	c.mu.Unlock()
	return v, nil
}

func (c *FormClient) generate(ctx context.Context, req *domain.DocumentRequest) (*domain.DocumentResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.New(msgBadResponse)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.New(msgUnreachable)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.New(msgUnreachable)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(msgUnreachable)
	}

	var result domain.DocumentResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.New(msgBadResponse)
	}
	if resp.StatusCode != http.StatusOK && result.Success {
		return nil, errors.New(msgBadResponse)
	}
	if !result.Success && result.Error == "" {
		result.Error = msgBadResponse
	}
	return &result, nil
}

func errorView(msg, suggestion string) *View {
	return &View{
		State:      StateErrorDisplayed,
		Error:      msg,
		Suggestion: suggestion,
		Hint:       HintRetry,
	}
}

func missingFields(req *domain.DocumentRequest) []string {
	var missing []string
	for _, f := range requiredFields {
		if strings.TrimSpace(f.value(req)) == "" {
			missing = append(missing, f.label)
		}
	}
	return missing
}

// HealthStatus is the relay liveness payload.
type HealthStatus struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Health queries the relay liveness endpoint.
func (c *FormClient) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating health request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("relay health returned status %d", resp.StatusCode)
	}
	var hs HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&hs); err != nil {
		return nil, fmt.Errorf("decoding health response: %w", err)
	}
	return &hs, nil
}
