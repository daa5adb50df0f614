package catalog

// RawElement is one player row from the provider's bootstrap payload.
type RawElement struct {
	ID            int     `json:"id"`
	WebName       string  `json:"web_name"`
	Team          int     `json:"team"`
	ElementType   int     `json:"element_type"`
	NowCost       int     `json:"now_cost"`
	TotalPoints   int     `json:"total_points"`
	PointsPerGame string  `json:"points_per_game"`
	Form          string  `json:"form"`
	Status        string  `json:"status"` // a=available, i=injured, s=suspended, u=unavailable
	News          string  `json:"news"`
	EventPoints   int     `json:"event_points"`
	Minutes       int     `json:"minutes"`
	EPNext        string  `json:"ep_next"` // provider's own next-event estimate
}

// RawEvent is one gameweek row.
type RawEvent struct {
	ID        int  `json:"id"`
	IsCurrent bool `json:"is_current"`
	IsNext    bool `json:"is_next"`
	Finished  bool `json:"finished"`
}

// Bootstrap is the subset of the provider's bootstrap-static payload
// the collector consumes.
type Bootstrap struct {
	Events   []RawEvent   `json:"events"`
	Elements []RawElement `json:"elements"`
}

// RawFixture is one match row, with the difficulty rating per side.
type RawFixture struct {
	Event      int  `json:"event"`
	TeamH      int  `json:"team_h"`
	TeamA      int  `json:"team_a"`
	TeamHDiff  int  `json:"team_h_difficulty"`
	TeamADiff  int  `json:"team_a_difficulty"`
	Finished   bool `json:"finished"`
}

// Fetcher defines the interface for fetching provider data.
type Fetcher interface {
	FetchBootstrap() (*Bootstrap, error)
	FetchFixtures() ([]RawFixture, error)
	Name() string
}
