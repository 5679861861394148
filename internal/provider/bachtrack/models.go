package bachtrack

// APIResponse represents the Bachtrack listings API response structure.
type APIResponse struct {
	Listings []Listing `json:"listings"`
	Total    int       `json:"total"`
}

type Listing struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Date       string     `json:"date"` // "2006-01-02"
	Time       string     `json:"time"` // "19:30", may be empty
	Venue      *Venue     `json:"venue"`
	Performers Performers `json:"performers"`
	Programme  string     `json:"programme"`
	URL        string     `json:"url"`
	Price      string     `json:"price"`
	Genres     []string   `json:"genres"`
}

type Venue struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type Performers struct {
	Orchestra string   `json:"orchestra"`
	Conductor string   `json:"conductor"`
	Soloists  []string `json:"soloists"`
}
