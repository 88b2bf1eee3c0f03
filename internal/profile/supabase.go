package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/OlaWorkspace/olla-website-sub000/internal/onboarding"
)

const profilesTable = "profiles"

const (
	roleCustomer     = "CUSTOMER"
	roleProfessional = "PROFESSIONAL"
)

// SupabaseStore reads and advances onboarding status through a Supabase
// project's PostgREST API using the service role key.
type SupabaseStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type SupabaseConfig struct {
	URL        string
	APIKey     string
	HTTPClient *http.Client
}

func NewSupabaseStore(cfg SupabaseConfig) (*SupabaseStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &SupabaseStore{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}, nil
}

func (s *SupabaseStore) GetProfile(ctx context.Context, userID string) (*onboarding.Profile, error) {
	params := url.Values{}
	params.Set("select", "id,role,is_professional,onboarding_status")
	params.Set("id", "eq."+userID)

	body, err := s.do(ctx, http.MethodGet, params, nil)
	if err != nil {
		return nil, err
	}
	return parseProfile(userID, body)
}

// advanceAttempts bounds the compare-and-set loop in AdvanceStatus.
const advanceAttempts = 3

var errAdvanceContended = errors.New("onboarding status kept changing during advance")

// AdvanceStatus reads the stored value, and if ParseStatus places it before
// `to`, patches the row on condition that it still holds exactly what was
// read. PostgREST filters cannot normalise case or whitespace, so the
// comparison happens here rather than in the filter.
func (s *SupabaseStore) AdvanceStatus(
	ctx context.Context,
	userID string,
	to onboarding.Status,
) (onboarding.Status, error) {

	payload, err := json.Marshal(map[string]string{"onboarding_status": to.String()})
	if err != nil {
		return onboarding.StatusNone, err
	}

	for attempt := 0; attempt < advanceAttempts; attempt++ {
		p, err := s.GetProfile(ctx, userID)
		if err != nil {
			return onboarding.StatusNone, err
		}
		if cur := onboarding.ParseStatusPtr(p.Status); cur >= to {
			return cur, nil
		}

		params := url.Values{}
		params.Set("id", "eq."+userID)
		if p.Status == nil {
			params.Set("onboarding_status", "is.null")
		} else {
			params.Set("onboarding_status", "eq."+*p.Status)
		}

		body, err := s.do(ctx, http.MethodPatch, params, payload)
		if err != nil {
			return onboarding.StatusNone, err
		}
		if updated := gjson.GetBytes(body, "0.onboarding_status"); updated.Exists() {
			return onboarding.ParseStatus(updated.String()), nil
		}
		// Another writer changed the row between read and patch.
	}
	return onboarding.StatusNone, errAdvanceContended
}

// SetProfessional mirrors PostgresStore.SetProfessional: the flag and role
// are patched, then a missing status is initialised to "none".
func (s *SupabaseStore) SetProfessional(ctx context.Context, userID string, professional bool) error {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	fields := map[string]any{"is_professional": professional}
	switch {
	case professional && p.Role == roleCustomer:
		fields["role"] = roleProfessional
	case !professional && p.Role == roleProfessional:
		fields["role"] = roleCustomer
	}
	if professional && p.Status == nil {
		fields["onboarding_status"] = onboarding.StatusNone.String()
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	params := url.Values{}
	params.Set("id", "eq."+userID)
	body, err := s.do(ctx, http.MethodPatch, params, payload)
	if err != nil {
		return err
	}
	if !gjson.GetBytes(body, "0").Exists() {
		return onboarding.ErrProfileNotFound
	}
	return nil
}

func (s *SupabaseStore) do(ctx context.Context, method string, params url.Values, payload []byte) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/rest/v1/%s?%s", s.baseURL, profilesTable, params.Encode())

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "message").String()
		if msg == "" {
			msg = string(body)
		}
		return nil, fmt.Errorf("supabase %s: status %d: %s", method, resp.StatusCode, msg)
	}
	return body, nil
}

func parseProfile(userID string, body []byte) (*onboarding.Profile, error) {
	row := gjson.GetBytes(body, "0")
	if !row.Exists() {
		return nil, onboarding.ErrProfileNotFound
	}

	p := &onboarding.Profile{
		UserID:       userID,
		Role:         row.Get("role").String(),
		Professional: row.Get("is_professional").Bool(),
	}
	if st := row.Get("onboarding_status"); st.Exists() && st.Type != gjson.Null {
		v := st.String()
		p.Status = &v
	}
	return p, nil
}
