package season

import (
	"encoding/json"
	"os"
	"time"

	"SquadSentinel/internal/model"
)

// LoadState reads the season state from a JSON file. Returns a zero
// state if the file doesn't exist.
func LoadState(filePath string) (*model.SeasonState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.SeasonState{}, nil
		}
		return nil, err
	}
	var state model.SeasonState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveState writes the season state to a JSON file.
func SaveState(filePath string, state *model.SeasonState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
