package onboarding

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := map[string]Status{
		"":               StatusNone,
		"none":           StatusNone,
		"NONE":           StatusNone,
		"plan_selected":  StatusPlanSelected,
		" Business_Info": StatusBusinessInfo,
		"loyalty_setup":  StatusLoyaltySetup,
		"completed":      StatusCompleted,
		"garbage-value":  StatusNone,
		"NULL":           StatusNone,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParseStatus(raw), "raw %q", raw)
	}
	assert.Equal(t, StatusNone, ParseStatusPtr(nil))
}

func TestStatus_Order(t *testing.T) {
	for i, s := range Steps {
		assert.Equal(t, i, s.Index())
		assert.Equal(t, s, ParseStatus(s.String()))
	}
	assert.Equal(t, StatusCompleted, StatusCompleted.Next())
	assert.Equal(t, StatusPlanSelected, StatusNone.Next())
	assert.Equal(t, []Status{StatusLoyaltySetup, StatusCompleted}, StatusLoyaltySetup.AtLeast())
	assert.Equal(t, Steps, StatusNone.AtLeast())
	assert.Equal(t, []string{"loyalty_setup", "completed"}, Names(StatusLoyaltySetup.AtLeast()))
}

func TestStatus_InvalidValuesActAsNone(t *testing.T) {
	bad := Status(42)
	assert.Equal(t, "none", bad.String())
	assert.Equal(t, 0, bad.Index())
	assert.Equal(t, PathPlan, CanonicalPath(bad))
}

func TestStatus_JSON(t *testing.T) {
	out, err := json.Marshal(map[string]Status{"status": StatusLoyaltySetup})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"loyalty_setup"}`, string(out))

	var in struct {
		Status Status `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"not-a-status"}`), &in))
	assert.Equal(t, StatusNone, in.Status)
}

func TestRequiredStatus(t *testing.T) {
	s, ok := RequiredStatus("/onboarding/loyalty/")
	assert.True(t, ok)
	assert.Equal(t, StatusBusinessInfo, s)

	s, ok = RequiredStatus("/onboarding/loyalty/tiers?draft=1")
	assert.True(t, ok)
	assert.Equal(t, StatusBusinessInfo, s)

	_, ok = RequiredStatus("/onboarding/loyaltyx")
	assert.False(t, ok)

	_, ok = RequiredStatus("/")
	assert.False(t, ok)
}
