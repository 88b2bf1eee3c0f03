package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OlaWorkspace/olla-website-sub000/internal/onboarding"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlansCommand(t *testing.T) {
	out, err := run(t, "plans")
	require.NoError(t, err)

	assert.Contains(t, out, "CODE")
	assert.Contains(t, out, "starter")
	assert.Contains(t, out, "business")
	assert.Contains(t, out, "unlimited")
}

func TestCommands_ValidateArgs(t *testing.T) {
	_, err := run(t, "promote-admin")
	assert.Error(t, err)

	_, err = run(t, "onboarding", "status")
	assert.Error(t, err)

	_, err = run(t, "onboarding", "mark-professional")
	assert.Error(t, err)

	_, err = run(t, "migrate", "extra")
	assert.Error(t, err)
}

func TestPrintProfile(t *testing.T) {
	status := "business_info"
	var out bytes.Buffer

	err := printProfile(&out, &onboarding.Profile{
		UserID:       "u-1",
		Role:         "PROFESSIONAL",
		Professional: true,
		Status:       &status,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "business_info")
	assert.Contains(t, out.String(), onboarding.PathLoyalty)
}

func TestPrintProfile_NullStatus(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, printProfile(&out, &onboarding.Profile{UserID: "u-2", Professional: true}))

	assert.Contains(t, out.String(), "none")
	assert.Contains(t, out.String(), onboarding.PathPlan)
}

// memoryStore applies SetProfessional the way the real stores do.
type memoryStore struct {
	profiles map[string]*onboarding.Profile
}

func (m *memoryStore) GetProfile(_ context.Context, userID string) (*onboarding.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, onboarding.ErrProfileNotFound
	}
	return p, nil
}

func (m *memoryStore) AdvanceStatus(context.Context, string, onboarding.Status) (onboarding.Status, error) {
	return onboarding.StatusNone, nil
}

func (m *memoryStore) SetProfessional(_ context.Context, userID string, professional bool) error {
	p, ok := m.profiles[userID]
	if !ok {
		return onboarding.ErrProfileNotFound
	}
	p.Professional = professional
	if professional && p.Status == nil {
		none := "none"
		p.Status = &none
	}
	return nil
}

func TestMarkProfessional(t *testing.T) {
	store := &memoryStore{profiles: map[string]*onboarding.Profile{
		"u-1": {UserID: "u-1", Role: "CUSTOMER"},
	}}
	var out bytes.Buffer

	require.NoError(t, markProfessional(context.Background(), &out, store, "u-1", true))

	assert.True(t, store.profiles["u-1"].Professional)
	assert.Contains(t, out.String(), "professional: true")
	assert.Contains(t, out.String(), onboarding.PathPlan)
}

func TestMarkProfessional_UnknownUser(t *testing.T) {
	store := &memoryStore{profiles: map[string]*onboarding.Profile{}}

	err := markProfessional(context.Background(), &bytes.Buffer{}, store, "ghost", true)
	assert.ErrorIs(t, err, onboarding.ErrProfileNotFound)
}
