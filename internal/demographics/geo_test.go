package demographics

import (
	"testing"
	"time"
)

func TestNormalizeCountryCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"us", "US"},
		{" gb ", "GB"},
		{"USA", "USA"},
		{"germany", ""},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := normalizeCountryCode(tc.in); got != tc.want {
			t.Errorf("normalizeCountryCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeCountryName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Germany", "Germany"},
		{"  France ", "France"},
		{"unknown", ""},
		{"Unknown", ""},
		{"N/A", ""},
		{"na", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalizeCountryName(tc.in); got != tc.want {
			t.Errorf("normalizeCountryName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolveContinent(t *testing.T) {
	cases := []struct {
		code string
		name string
		want string
	}{
		{"DE", "", continentEurope},
		{"", "germany", continentEurope},
		{"JP", "Brazil", continentAsia}, // code table wins over name
		{"XX", "brazil", continentSouthAmerica},
		{"XX", "atlantis", OthersBucket},
		{"", "", OthersBucket},
	}
	for _, tc := range cases {
		if got := resolveContinent(tc.code, tc.name); got != tc.want {
			t.Errorf("resolveContinent(%q, %q) = %q, want %q", tc.code, tc.name, got, tc.want)
		}
	}
}

func TestGroupByContinentMergesCodeAndNameVariants(t *testing.T) {
	engine := NewEngine(testDomains, nil)
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	records := []UserRecord{
		{UserID: "u1", CreatedAt: at, CountryCode: "us"},
		{UserID: "u2", CreatedAt: at, CountryCode: "US", CountryName: "United States"},
		{UserID: "u3", CreatedAt: at, CountryName: "Canada"},
		{UserID: "u4", CreatedAt: at, CountryCode: "DE"},
		{UserID: "u5", CreatedAt: at, CountryName: "unknown"},
	}

	groups := engine.groupByContinent(records)
	if len(groups) != 3 {
		t.Fatalf("expected 3 continents, got %d: %+v", len(groups), groups)
	}

	// Largest bucket first.
	if groups[0].Name != continentNorthAmerica || groups[0].Count != 3 {
		t.Fatalf("expected North America with 3, got %s/%d", groups[0].Name, groups[0].Count)
	}

	// The two US rows merged under the code, displayed via the locale table.
	us := groups[0].Countries[0]
	if us.Code != "US" || us.Count != 2 {
		t.Fatalf("expected merged US group with 2, got %+v", us)
	}
	if us.Name != "United States" {
		t.Fatalf("expected locale display name for US, got %q", us.Name)
	}

	var others *ContinentGroup
	for i := range groups {
		if groups[i].Name == OthersBucket {
			others = &groups[i]
		}
	}
	if others == nil || others.Count != 1 {
		t.Fatalf("expected Others bucket with 1, got %+v", groups)
	}
}

func TestGroupByContinentTieBreaksAlphabetically(t *testing.T) {
	engine := NewEngine(testDomains, nil)
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	records := []UserRecord{
		{UserID: "u1", CreatedAt: at, CountryCode: "AU"},
		{UserID: "u2", CreatedAt: at, CountryCode: "BR"},
	}

	groups := engine.groupByContinent(records)
	if len(groups) != 2 {
		t.Fatalf("expected 2 continents, got %d", len(groups))
	}
	if groups[0].Name != continentOceania || groups[1].Name != continentSouthAmerica {
		t.Fatalf("equal counts should sort by name, got %s then %s", groups[0].Name, groups[1].Name)
	}
}
