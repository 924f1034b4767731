package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/scrnstr/internal/domain"
)

func TestFieldsKeepModelOrder(t *testing.T) {
	var f domain.Fields
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Dune","year":2021,"rating":null,"cast":["a","b"],"note":"  "}`), &f))

	if diff := cmp.Diff([]string{"title", "year", "cast", "note"}, f.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "2021", f.Value("year", ""))
	assert.Equal(t, `["a","b"]`, f.Value("cast", ""))
	assert.Equal(t, "  ", f.Value("note", "x"))
	assert.Equal(t, "x", f.Text("note", "x"))
	assert.Equal(t, "fallback", f.Value("rating", "fallback"))

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Dune","year":"2021","cast":"[\"a\",\"b\"]","note":"  "}`, string(out))
}

func TestFieldsRejectNonObject(t *testing.T) {
	var f domain.Fields
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &f))
}

func TestFieldsZeroValue(t *testing.T) {
	var f domain.Fields
	assert.Zero(t, f.Len())
	assert.Nil(t, f.Keys())
	_, ok := f.Get("x")
	assert.False(t, ok)

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

func TestFieldsWithCopies(t *testing.T) {
	base := domain.NewFields("a", "1", "b", "2")
	next := base.With("a", "9").With("c", "3")

	assert.Equal(t, "1", base.Value("a", ""))
	assert.Equal(t, 2, base.Len())
	assert.Equal(t, []string{"a", "b", "c"}, next.Keys())
	assert.Equal(t, "9", next.Value("a", ""))
}

func TestActionTriggerRoundTrip(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	result := domain.ClassificationResult{
		Category: domain.CategoryContact,
		Fields:   domain.NewFields("name", "Ada", "phone", "+1 555"),
	}
	trigger, err := domain.NewActionTrigger(result, "/tmp/Screenshot.png", now)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryContact, trigger.Category)
	assert.Equal(t, now, trigger.CreatedAt)

	fields, err := trigger.DecodeFields()
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "phone"}, fields.Keys())

	empty, err := domain.ActionTrigger{}.DecodeFields()
	require.NoError(t, err)
	assert.Zero(t, empty.Len())
}

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		result domain.ClassificationResult
		want   string
	}{
		{domain.ClassificationResult{Category: domain.CategoryFoodBill, Fields: domain.NewFields("total", "12", "restaurant", "Nopa")}, "Nopa"},
		{domain.ClassificationResult{Category: domain.CategoryWifiPassword, Fields: domain.NewFields("ssid", "Home", "title", "Wifi")}, "Wifi"},
		{domain.ClassificationResult{Category: domain.CategoryUnknown}, domain.CategoryUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.result.DisplayTitle())
	}
}
