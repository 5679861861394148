package ticketmaster

// APIResponse represents the TicketMaster Discovery API response structure.
type APIResponse struct {
	Embedded *EmbeddedEvents `json:"_embedded"`
	Page     Page            `json:"page"`
}

type Page struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
}

type EmbeddedEvents struct {
	Events []Event `json:"events"`
}

type Event struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	URL             string           `json:"url"`
	Info            string           `json:"info"`
	Dates           Dates            `json:"dates"`
	Classifications []Classification `json:"classifications"`
	PriceRanges     []PriceRange     `json:"priceRanges"`
	Embedded        *EmbeddedVenues  `json:"_embedded"`
}

type Dates struct {
	Start Start `json:"start"`
}

type Start struct {
	LocalDate string `json:"localDate"` // "2006-01-02"
	LocalTime string `json:"localTime"` // "19:30:00", may be empty
}

type Classification struct {
	Genre    *Named `json:"genre"`
	SubGenre *Named `json:"subGenre"`
}

type Named struct {
	Name string `json:"name"`
}

type PriceRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

type EmbeddedVenues struct {
	Venues []Venue `json:"venues"`
}

type Venue struct {
	Name    string `json:"name"`
	City    Named  `json:"city"`
	State   Named  `json:"state"`
	Country Named  `json:"country"`
}
