package league

import (
	"testing"
	"time"
)

func TestByKey(t *testing.T) {
	t.Parallel()

	l, ok := ByKey("premier_league")
	if !ok {
		t.Fatal("premier_league not found")
	}
	if l.ID != 39 || l.Name != "Premier League" || l.Country != "England" {
		t.Fatalf("unexpected league %+v", l)
	}

	if _, ok := ByKey("eredivisie"); ok {
		t.Fatal("unsupported key resolved")
	}
}

func TestByID_CoversAllKeys(t *testing.T) {
	t.Parallel()

	want := map[string]int{
		"premier_league": 39,
		"la_liga":        140,
		"bundesliga":     78,
		"serie_a":        135,
		"ligue_1":        61,
	}

	for key, id := range want {
		l, ok := ByID(id)
		if !ok {
			t.Fatalf("id %d not found", id)
		}
		if l.Key != key {
			t.Fatalf("id %d resolved to %q, want %q", id, l.Key, key)
		}
	}

	if Covered(2) {
		t.Fatal("Champions League should not be covered")
	}
}

func TestKeys_CanonicalOrder(t *testing.T) {
	t.Parallel()

	got := Keys()
	want := []string{"premier_league", "la_liga", "bundesliga", "serie_a", "ligue_1"}
	if len(got) != len(want) {
		t.Fatalf("got %d keys", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSeasonYear(t *testing.T) {
	t.Parallel()

	cases := []struct {
		now  time.Time
		want int
	}{
		{time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), 2024},
		{time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC), 2024},
		{time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC), 2025},
		{time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC), 2025},
	}

	for _, tc := range cases {
		if got := SeasonYear(tc.now); got != tc.want {
			t.Fatalf("SeasonYear(%s) = %d, want %d", tc.now.Format("2006-01-02"), got, tc.want)
		}
	}
}
