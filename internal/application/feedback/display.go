package feedback

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/doeshing/scrnstr/internal/domain"
)

// DefaultRows is the category lookup table shared by both channels.
var DefaultRows = map[string]domain.DisplayRow{
	domain.CategoryFoodBill: {
		TitleTemplate:             `FOOD BILL: {{field "total" "?"}}`,
		SubtitleTemplate:          `{{field "restaurant" "Unknown"}}`,
		ActionLabel:               "ORGANIZE →",
		NotificationTitleTemplate: `Food Bill: {{field "total" "?"}}`,
		NotificationTextTemplate:  `{{field "restaurant" "Unknown"}} — Tap to organize`,
		Accent:                    domain.AccentGreen,
	},
	domain.CategoryEvent: {
		TitleTemplate:             `EVENT: {{field "title" "Event"}}`,
		SubtitleTemplate:          `{{field "date" ""}}`,
		ActionLabel:               "ADD TO CALENDAR →",
		NotificationTitleTemplate: `Event: {{field "title" "Event"}}`,
		NotificationTextTemplate:  `{{field "date" ""}} — Tap to add to calendar`,
		Accent:                    domain.AccentGreen,
	},
	domain.CategoryTechArticle: {
		TitleTemplate:             `TECH ARTICLE`,
		SubtitleTemplate:          `{{field "title" "Article"}}`,
		ActionLabel:               "SHARE →",
		NotificationTitleTemplate: `Tech Article`,
		NotificationTextTemplate:  `{{field "title" "Article"}} — Tap to share`,
		Accent:                    domain.AccentAmber,
	},
	domain.CategoryMovie: {
		TitleTemplate:             `MOVIE: {{field "title" "Movie"}}`,
		SubtitleTemplate:          `Add to Letterboxd watchlist`,
		ActionLabel:               "ADD TO WATCHLIST →",
		NotificationTitleTemplate: `Movie: {{field "title" "Movie"}}`,
		NotificationTextTemplate:  `Tap to add to Letterboxd`,
		Accent:                    domain.AccentAmber,
	},
	domain.CategoryCouponCode: {
		TitleTemplate:             `COUPON: {{field "code" "Code"}}`,
		SubtitleTemplate:          `{{field "platform" ""}}`,
		ActionLabel:               "COPY →",
		NotificationTitleTemplate: `Coupon: {{field "code" "Code"}}`,
		NotificationTextTemplate:  `{{prefix (field "platform" "")}}Tap to copy`,
		Accent:                    domain.AccentPink,
	},
	domain.CategoryContact: {
		TitleTemplate:             `CONTACT: {{field "name" "Contact"}}`,
		SubtitleTemplate:          `{{field "company" ""}}`,
		ActionLabel:               "SAVE →",
		NotificationTitleTemplate: `Contact: {{field "name" "Contact"}}`,
		NotificationTextTemplate:  `{{prefix (field "company" "")}}Tap to save`,
		Accent:                    domain.AccentBlue,
	},
	domain.CategoryWifiPassword: {
		TitleTemplate:             `WIFI: {{field "ssid" "Network"}}`,
		SubtitleTemplate:          `Tap to connect`,
		ActionLabel:               "CONNECT →",
		NotificationTitleTemplate: `WiFi: {{field "ssid" "Network"}}`,
		NotificationTextTemplate:  `Tap to connect`,
		Accent:                    domain.AccentBlue,
	},
	domain.CategoryAddress: {
		TitleTemplate:             `ADDRESS: {{field "place_name" "Location"}}`,
		SubtitleTemplate:          `{{field "city" ""}}`,
		ActionLabel:               "OPEN IN MAPS →",
		NotificationTitleTemplate: `Address: {{text "place_name" "Location"}}`,
		NotificationTextTemplate:  `{{prefix (field "city" "")}}Tap to open in Maps`,
		Accent:                    domain.AccentOrange,
	},
	domain.CategoryReminder: {
		TitleTemplate:             `REMINDER: {{field "title" "Reminder"}}`,
		SubtitleTemplate:          `{{field "time" ""}}`,
		ActionLabel:               "SET ALARM →",
		NotificationTitleTemplate: `Reminder: {{field "title" "Reminder"}}`,
		NotificationTextTemplate:  `{{prefix (field "time" "")}}Tap to set alarm`,
		Accent:                    domain.AccentPurple,
	},
	domain.CategoryTravel: {
		TitleTemplate:             `TRAVEL: {{field "title" "Trip"}}`,
		SubtitleTemplate:          `{{field "date" ""}}`,
		ActionLabel:               "ADD TO CALENDAR →",
		NotificationTitleTemplate: `Travel: {{field "title" "Trip"}}`,
		NotificationTextTemplate:  `{{prefix (field "date" "")}}Tap to add to calendar`,
		Accent:                    domain.AccentGreen,
	},
}

// FallbackRow renders categories missing from the table.
var FallbackRow = domain.DisplayRow{
	TitleTemplate:             `SCREENSHOT ANALYZED`,
	SubtitleTemplate:          `{{.Category}}`,
	ActionLabel:               "DISMISS →",
	NotificationTitleTemplate: `Screenshot Analyzed`,
	NotificationTextTemplate:  `Unknown category`,
	Accent:                    domain.AccentGreen,
}

// Rendered is a display row expanded against one result.
type Rendered struct {
	Title             string
	Subtitle          string
	ActionLabel       string
	NotificationTitle string
	NotificationText  string
	Accent            domain.AccentColor
}

type compiledRow struct {
	row               domain.DisplayRow
	title             *template.Template
	subtitle          *template.Template
	notificationTitle *template.Template
	notificationText  *template.Template
}

// DisplayTable maps a category to its compiled display row.
type DisplayTable struct {
	rows     map[string]compiledRow
	fallback compiledRow
}

// NewDisplayTable compiles rows and fallback. A template that does not parse
// is a programming error and is reported immediately.
func NewDisplayTable(rows map[string]domain.DisplayRow, fallback domain.DisplayRow) (*DisplayTable, error) {
	table := &DisplayTable{rows: make(map[string]compiledRow, len(rows))}
	for category, row := range rows {
		compiled, err := compileRow(category, row)
		if err != nil {
			return nil, err
		}
		table.rows[category] = compiled
	}
	compiled, err := compileRow("fallback", fallback)
	if err != nil {
		return nil, err
	}
	table.fallback = compiled
	return table, nil
}

// MustDefaultTable compiles DefaultRows and FallbackRow.
func MustDefaultTable() *DisplayTable {
	table, err := NewDisplayTable(DefaultRows, FallbackRow)
	if err != nil {
		panic(err)
	}
	return table
}

// Render expands the row for result.Category, or the fallback row.
func (t *DisplayTable) Render(result domain.ClassificationResult) Rendered {
	row, ok := t.rows[result.Category]
	if !ok {
		row = t.fallback
	}
	return Rendered{
		Title:             execute(row.title, result),
		Subtitle:          execute(row.subtitle, result),
		ActionLabel:       row.row.ActionLabel,
		NotificationTitle: execute(row.notificationTitle, result),
		NotificationText:  execute(row.notificationText, result),
		Accent:            row.row.Accent,
	}
}

func compileRow(name string, row domain.DisplayRow) (compiledRow, error) {
	out := compiledRow{row: row}
	var err error
	if out.title, err = parse(name+".title", row.TitleTemplate); err != nil {
		return compiledRow{}, err
	}
	if out.subtitle, err = parse(name+".subtitle", row.SubtitleTemplate); err != nil {
		return compiledRow{}, err
	}
	if out.notificationTitle, err = parse(name+".notification_title", row.NotificationTitleTemplate); err != nil {
		return compiledRow{}, err
	}
	if out.notificationText, err = parse(name+".notification_text", row.NotificationTextTemplate); err != nil {
		return compiledRow{}, err
	}
	return out, nil
}

// placeholder funcs; execute clones the template and binds them to the result.
var baseFuncs = template.FuncMap{
	"field":  func(string, string) string { return "" },
	"text":   func(string, string) string { return "" },
	"prefix": prefix,
}

func parse(name, body string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(baseFuncs).Option("missingkey=zero").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse display template %s: %w", name, err)
	}
	return tmpl, nil
}

func execute(tmpl *template.Template, result domain.ClassificationResult) string {
	bound, err := tmpl.Clone()
	if err != nil {
		return ""
	}
	bound.Funcs(template.FuncMap{
		"field": result.Fields.Value,
		"text":  result.Fields.Text,
	})
	var buf bytes.Buffer
	if err := bound.Execute(&buf, result); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}

func prefix(s string) string {
	if s == "" {
		return ""
	}
	return s + " — "
}
