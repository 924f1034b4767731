package domain

// Category tags understood by the built-in handlers. The set is open: any
// other tag is a valid classification handled generically downstream.
const (
	CategoryFoodBill     = "food_bill"
	CategoryEvent        = "event"
	CategoryTechArticle  = "tech_article"
	CategoryMovie        = "movie"
	CategoryCouponCode   = "coupon_code"
	CategoryContact      = "contact"
	CategoryWifiPassword = "wifi_password"
	CategoryAddress      = "address"
	CategoryReminder     = "reminder"
	CategoryTravel       = "travel"
	CategoryUnknown      = "unknown"
)

// ClassificationResult is the immutable outcome of one classifier call.
type ClassificationResult struct {
	Category        string `json:"category"`
	Fields          Fields `json:"data"`
	SuggestedAction string `json:"suggested_action"`
}

// ClassificationInput carries either image bytes or free text.
type ClassificationInput struct {
	Image    []byte
	MIMEType string
	Text     string
}

// IsImage reports whether the input carries image bytes.
func (in ClassificationInput) IsImage() bool {
	return len(in.Image) > 0
}

// DisplayTitle derives the short title retained in the intercept history.
func (r ClassificationResult) DisplayTitle() string {
	for _, key := range []string{"title", "restaurant", "name", "code", "ssid", "place_name"} {
		if v, ok := r.Fields.Get(key); ok {
			return v
		}
	}
	return r.Category
}
