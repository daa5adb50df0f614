package model

// Formation is starter counts by position: GK-DEF-MID-FWD.
type Formation [4]int

// Lineup partitions a roster into 11 starters and a 4-player bench
// ordered by auto-substitution priority, plus the captain (score ×2)
// and the vice-captain fallback. Recomputed every period.
type Lineup struct {
	Starters  []int     `json:"starters"`
	Bench     []int     `json:"bench"`
	Captain   int       `json:"captain"`
	Vice      int       `json:"vice"`
	Formation Formation `json:"formation"`

	// BaseScore is the forecast sum of the starters; ExpectedScore
	// additionally counts the captain multiplier and any chip effect.
	BaseScore     float64 `json:"base_score"`
	ExpectedScore float64 `json:"expected_score"`
	BenchScore    float64 `json:"bench_score"`
}
