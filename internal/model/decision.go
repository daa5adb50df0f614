package model

import "time"

// Transfer is one executed (player-out, player-in) swap.
type Transfer struct {
	Out         int     `json:"out"`
	In          int     `json:"in"`
	OutName     string  `json:"out_name"`
	InName      string  `json:"in_name"`
	Gain        float64 `json:"gain"`        // forecast(in) − forecast(out)
	HitCost     int     `json:"hit_cost"`    // 0 if covered by the bank
	PriceDelta  int     `json:"price_delta"` // tenths, in − out
	Reasoning   string  `json:"reasoning,omitempty"`
}

// DecisionRecord is the complete, auditable output of one period's run.
// It is the only artifact the recorder/notifier collaborators consume.
type DecisionRecord struct {
	ID            string     `json:"id"`
	Period        int        `json:"period"`
	Roster        Roster     `json:"roster"`
	Lineup        Lineup     `json:"lineup"`
	Transfers     []Transfer `json:"transfers"`
	Chip          ChipKind   `json:"chip,omitempty"`
	HitCost       int        `json:"hit_cost"`
	NetGain       float64    `json:"net_gain"`
	ExpectedScore float64    `json:"expected_score"`
	BankAfter     int        `json:"bank_after"`
	SpendTenths   int        `json:"spend_tenths"`
	GeneratedAt   time.Time  `json:"generated_at"`
}
