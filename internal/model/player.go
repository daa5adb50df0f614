package model

import (
	"fmt"
	"time"
)

// Position is the FPL element type (1=GK, 2=DEF, 3=MID, 4=FWD).
type Position int

const (
	Goalkeeper Position = 1
	Defender   Position = 2
	Midfielder Position = 3
	Forward    Position = 4
)

// Positions lists all positions in element-type order.
var Positions = []Position{Goalkeeper, Defender, Midfielder, Forward}

func (p Position) String() string {
	switch p {
	case Goalkeeper:
		return "GK"
	case Defender:
		return "DEF"
	case Midfielder:
		return "MID"
	case Forward:
		return "FWD"
	default:
		return fmt.Sprintf("POS(%d)", int(p))
	}
}

// Valid reports whether p is one of the four element types.
func (p Position) Valid() bool {
	return p >= Goalkeeper && p <= Forward
}

// Player is one catalog entry. Prices are in tenths of a million
// (55 = £5.5m), matching the provider's wire format.
type Player struct {
	ID       int
	Name     string
	Team     int
	Position Position
	Price    int // tenths

	// Per-period factor scores, precomputed by the collector.
	Forecast    float64 // expected points this period; 0 for unknown
	Form        float64
	FixtureEase float64 // 0..1, higher is easier
	Value       float64 // points per million

	Available bool
	News      string
}

// PriceMillions converts the fixed-point price to millions.
func (p Player) PriceMillions() float64 {
	return float64(p.Price) / 10
}

// Catalog is the immutable per-period snapshot of all eligible players.
type Catalog struct {
	Period    int
	Players   []Player
	FetchedAt time.Time

	byID map[int]*Player
}

// NewCatalog builds a catalog and its ID index.
func NewCatalog(period int, players []Player) *Catalog {
	c := &Catalog{Period: period, Players: players, FetchedAt: time.Now()}
	c.byID = make(map[int]*Player, len(players))
	for i := range c.Players {
		c.byID[c.Players[i].ID] = &c.Players[i]
	}
	return c
}

// Player returns the catalog entry for id, or nil if unknown.
func (c *Catalog) Player(id int) *Player {
	if c.byID == nil {
		c.byID = make(map[int]*Player, len(c.Players))
		for i := range c.Players {
			c.byID[c.Players[i].ID] = &c.Players[i]
		}
	}
	return c.byID[id]
}
