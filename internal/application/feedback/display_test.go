package feedback

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/scrnstr/internal/domain"
)

func TestRenderKnownCategories(t *testing.T) {
	table := MustDefaultTable()
	tests := []struct {
		name   string
		result domain.ClassificationResult
		want   Rendered
	}{
		{
			name:   "food bill",
			result: domain.ClassificationResult{Category: "food_bill", Fields: domain.NewFields("total", "$42.10", "restaurant", "Cafe X")},
			want: Rendered{
				Title:             "FOOD BILL: $42.10",
				Subtitle:          "Cafe X",
				ActionLabel:       "ORGANIZE →",
				NotificationTitle: "Food Bill: $42.10",
				NotificationText:  "Cafe X — Tap to organize",
				Accent:            domain.AccentGreen,
			},
		},
		{
			name:   "food bill without fields",
			result: domain.ClassificationResult{Category: "food_bill", Fields: domain.NewFields()},
			want: Rendered{
				Title:             "FOOD BILL: ?",
				Subtitle:          "Unknown",
				ActionLabel:       "ORGANIZE →",
				NotificationTitle: "Food Bill: ?",
				NotificationText:  "Unknown — Tap to organize",
				Accent:            domain.AccentGreen,
			},
		},
		{
			name:   "coupon without platform",
			result: domain.ClassificationResult{Category: "coupon_code", Fields: domain.NewFields("code", "SAVE20")},
			want: Rendered{
				Title:             "COUPON: SAVE20",
				ActionLabel:       "COPY →",
				NotificationTitle: "Coupon: SAVE20",
				NotificationText:  "Tap to copy",
				Accent:            domain.AccentPink,
			},
		},
		{
			name:   "address with blank place name",
			result: domain.ClassificationResult{Category: "address", Fields: domain.NewFields("place_name", " ", "city", "Lyon")},
			want: Rendered{
				Title:             "ADDRESS:",
				Subtitle:          "Lyon",
				ActionLabel:       "OPEN IN MAPS →",
				NotificationTitle: "Address: Location",
				NotificationText:  "Lyon — Tap to open in Maps",
				Accent:            domain.AccentOrange,
			},
		},
		{
			name:   "unknown category",
			result: domain.ClassificationResult{Category: "meme"},
			want: Rendered{
				Title:             "SCREENSHOT ANALYZED",
				Subtitle:          "meme",
				ActionLabel:       "DISMISS →",
				NotificationTitle: "Screenshot Analyzed",
				NotificationText:  "Unknown category",
				Accent:            domain.AccentGreen,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.Render(tt.result)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEveryCategoryHasRow(t *testing.T) {
	for _, category := range []string{
		domain.CategoryFoodBill, domain.CategoryEvent, domain.CategoryTechArticle,
		domain.CategoryMovie, domain.CategoryCouponCode, domain.CategoryContact,
		domain.CategoryWifiPassword, domain.CategoryAddress, domain.CategoryReminder,
		domain.CategoryTravel,
	} {
		_, ok := DefaultRows[category]
		assert.True(t, ok, category)
	}
}

func TestNewDisplayTableRejectsBadTemplate(t *testing.T) {
	_, err := NewDisplayTable(map[string]domain.DisplayRow{
		"broken": {TitleTemplate: "{{field"},
	}, FallbackRow)
	require.Error(t, err)
}
