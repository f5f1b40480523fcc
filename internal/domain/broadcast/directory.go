package broadcast

import "sort"

// Unavailable is returned in place of channel names when a league has no
// broadcast mapping.
const Unavailable = "Broadcast info unavailable"

// Directory maps league ids to the TV channels that carry their matches.
type Directory struct {
	channels map[int][]string
}

// NewDirectory returns a directory seeded with the channel lineup for the
// covered leagues.
func NewDirectory() *Directory {
	return &Directory{
		channels: map[int][]string{
			39:  {"Sky Sports", "TNT Sports", "NOW TV"},
			140: {"Premier Sports", "LaLigaTV"},
			78:  {"Sky Sports", "TNT Sports"},
			135: {"TNT Sports", "BT Sport"},
			61:  {"TNT Sports", "beIN Sports"},
		},
	}
}

// Channels returns the broadcast channels for a league. Unknown leagues get
// a single Unavailable placeholder so responses always carry a non-empty
// channel list.
func (d *Directory) Channels(leagueID int) []string {
	channels, ok := d.channels[leagueID]
	if !ok || len(channels) == 0 {
		return []string{Unavailable}
	}

	out := make([]string, len(channels))
	copy(out, channels)
	return out
}

// Available reports whether a league has a broadcast mapping.
func (d *Directory) Available(leagueID int) bool {
	channels, ok := d.channels[leagueID]
	return ok && len(channels) > 0
}

// AllChannels returns every distinct channel name, sorted.
func (d *Directory) AllChannels() []string {
	seen := make(map[string]struct{})
	for _, channels := range d.channels {
		for _, ch := range channels {
			seen[ch] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for ch := range seen {
		out = append(out, ch)
	}
	sort.Strings(out)
	return out
}

// LeaguesByChannel returns the ids of leagues carried by the named channel,
// sorted for stable output.
func (d *Directory) LeaguesByChannel(channel string) []int {
	var out []int
	for leagueID, channels := range d.channels {
		for _, ch := range channels {
			if ch == channel {
				out = append(out, leagueID)
				break
			}
		}
	}
	sort.Ints(out)
	return out
}
