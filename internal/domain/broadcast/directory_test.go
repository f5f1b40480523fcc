package broadcast

import "testing"

func TestChannels_KnownLeague(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	got := d.Channels(39)
	want := []string{"Sky Sports", "TNT Sports", "NOW TV"}

	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("channels[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestChannels_UnknownLeagueGetsPlaceholder(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	got := d.Channels(2)
	if len(got) != 1 || got[0] != Unavailable {
		t.Fatalf("got %v", got)
	}
	if d.Available(2) {
		t.Fatal("unknown league reported available")
	}
}

func TestChannels_ReturnsCopy(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	first := d.Channels(140)
	first[0] = "mutated"

	second := d.Channels(140)
	if second[0] != "Premier Sports" {
		t.Fatalf("directory state mutated: %v", second)
	}
}

func TestAllChannels_SortedAndUnique(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	got := d.AllChannels()

	seen := make(map[string]bool)
	for i, ch := range got {
		if seen[ch] {
			t.Fatalf("duplicate channel %q", ch)
		}
		seen[ch] = true
		if i > 0 && got[i-1] > ch {
			t.Fatalf("channels not sorted: %v", got)
		}
	}
	if !seen["TNT Sports"] || !seen["beIN Sports"] {
		t.Fatalf("missing expected channels in %v", got)
	}
}

func TestLeaguesByChannel(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	got := d.LeaguesByChannel("TNT Sports")
	want := []int{39, 61, 78, 135}

	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("leagues[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	if leagues := d.LeaguesByChannel("ESPN"); len(leagues) != 0 {
		t.Fatalf("unexpected leagues %v", leagues)
	}
}
