package bandsintown

// Event represents one entry of the Bandsintown artist events response,
// which is a bare JSON array.
type Event struct {
	ID          string   `json:"id"`
	ArtistID    string   `json:"artist_id"`
	URL         string   `json:"url"`
	Datetime    string   `json:"datetime"` // "2006-01-02T15:04:05"
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Venue       Venue    `json:"venue"`
	Lineup      []string `json:"lineup"`
}

type Venue struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}
