package eventbrite

// APIResponse represents the Eventbrite event search response structure.
type APIResponse struct {
	Events     []Event    `json:"events"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	ObjectCount  int  `json:"object_count"`
	PageSize     int  `json:"page_size"`
	HasMoreItems bool `json:"has_more_items"`
}

type Event struct {
	ID          string `json:"id"`
	Name        Text   `json:"name"`
	Description Text   `json:"description"`
	URL         string `json:"url"`
	Start       When   `json:"start"`
	IsFree      bool   `json:"is_free"`
	Venue       *Venue `json:"venue"`
}

type Text struct {
	Text string `json:"text"`
}

type When struct {
	Timezone string `json:"timezone"`
	Local    string `json:"local"` // "2006-01-02T15:04:05"
	UTC      string `json:"utc"`
}

type Venue struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

type Address struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}
