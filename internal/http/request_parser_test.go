package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"budgetbook/internal/core"
)

func TestParseMonthParams(t *testing.T) {
	now := time.Date(2024, 3, 31, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*3600)

	tests := []struct {
		name      string
		query     url.Values
		loc       *time.Location
		wantYear  int
		wantMonth time.Month
		wantErr   bool
	}{
		{
			name:      "both values provided",
			query:     url.Values{"year": {"2024"}, "month": {"12"}},
			loc:       time.UTC,
			wantYear:  2024,
			wantMonth: time.December,
		},
		{
			name:      "only year",
			query:     url.Values{"year": {"2023"}},
			loc:       time.UTC,
			wantYear:  2023,
			wantMonth: time.March,
		},
		{
			name:      "only month",
			query:     url.Values{"month": {"5"}},
			loc:       time.UTC,
			wantYear:  2024,
			wantMonth: time.May,
		},
		{
			name:      "defaults follow the location",
			query:     url.Values{},
			loc:       tokyo,
			wantYear:  2024,
			wantMonth: time.April,
		},
		{name: "month out of range", query: url.Values{"month": {"13"}}, loc: time.UTC, wantErr: true},
		{name: "month not a number", query: url.Values{"month": {"abc"}}, loc: time.UTC, wantErr: true},
		{name: "year zero", query: url.Values{"year": {"0"}}, loc: time.UTC, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseMonthParams(tt.query, now, tt.loc)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", result)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMonthParams() error = %v", err)
			}
			if result.Year != tt.wantYear || result.Month != tt.wantMonth {
				t.Errorf("got %d-%02d, want %d-%02d", result.Year, result.Month, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestRequestBodyParser_JSON(t *testing.T) {
	body := `{"title": "Coffee", "amount": 4.50, "category": "food", "paid": true}`
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !parser.IsJSON() {
		t.Error("Expected IsJSON() to be true")
	}
	if title := parser.Get("title"); title != "Coffee" {
		t.Errorf("Get('title') = %q, want 'Coffee'", title)
	}
	// Numbers keep their literal text so no precision is lost.
	if amount := parser.Get("amount"); amount != "4.50" {
		t.Errorf("Get('amount') = %q, want '4.50'", amount)
	}
	if paid := parser.Get("paid"); paid != "true" {
		t.Errorf("Get('paid') = %q, want 'true'", paid)
	}
	if !parser.Has("category") || parser.Has("date") {
		t.Error("Has() reported the wrong keys")
	}
}

func TestRequestBodyParser_JSONWithoutContentType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`  {"budget": "100"}`))

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if parser.Get("budget") != "100" {
		t.Errorf("Get('budget') = %q", parser.Get("budget"))
	}
}

func TestRequestBodyParser_FormData(t *testing.T) {
	body := "title=Bus+ticket&amount=2%2C50&category=transport"
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if parser.IsJSON() {
		t.Error("Expected IsJSON() to be false for form data")
	}
	if title := parser.Get("title"); title != "Bus ticket" {
		t.Errorf("Get('title') = %q, want 'Bus ticket'", title)
	}
	if amount := parser.Get("amount"); amount != "2,50" {
		t.Errorf("Get('amount') = %q, want '2,50'", amount)
	}
}

func TestRequestBodyParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		ct   string
	}{
		{"malformed json", `{"title": `, "application/json"},
		{"json array", `["a"]`, "application/json"},
		{"too large", "title=" + strings.Repeat("a", maxBodyBytes), "application/x-www-form-urlencoded"},
		{"bad form escape", "title=%zz", "application/x-www-form-urlencoded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.ct)
			if err := NewRequestBodyParser(req).Parse(); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}

func TestRequestBodyParser_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(""))

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if val := parser.Get("nonexistent"); val != "" {
		t.Errorf("Get('nonexistent') = %q, want empty string", val)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Coffee  ", "Coffee"},
		{"Cof\x00fee\x07", "Coffee"},
		{"line\nbreak", "line\nbreak"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseExpenseDate(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	rome := time.FixedZone("CET", 3600)

	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{name: "empty means now", in: "", want: now},
		{name: "plain date is midnight in location", in: "2024-03-01", want: time.Date(2024, 3, 1, 0, 0, 0, 0, rome)},
		{name: "rfc3339", in: "2024-03-01T10:30:00Z", want: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)},
		{name: "other layout", in: "01/03/2024", wantErr: true},
		{name: "impossible day", in: "2024-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseExpenseDate(tt.in, now, rome)
			if tt.wantErr {
				if !core.IsValidation(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseIDParam(t *testing.T) {
	if id, err := parseIDParam("42"); err != nil || id != 42 {
		t.Fatalf("parseIDParam(42) = %d, %v", id, err)
	}
	for _, bad := range []string{"", "0", "-1", "abc", "1.5"} {
		if _, err := parseIDParam(bad); err == nil {
			t.Errorf("parseIDParam(%q) should fail", bad)
		}
	}
}
