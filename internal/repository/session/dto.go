package session

import (
	"encoding/json"
	"fmt"

	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/selection"
)

// selectionDTO is the stored form of a selection.
type selectionDTO struct {
	InstituteType string   `json:"institute_type"`
	Programs      []string `json:"programs,omitempty"`
	QuickFilter   string   `json:"quick_filter"`
	Category      string   `json:"category"`
	Ceiling       int      `json:"ceiling"`
}

func encodeSelection(sel selection.Selection) ([]byte, error) {
	data, err := json.Marshal(selectionDTO{
		InstituteType: sel.InstituteChoice(),
		Programs:      sel.Programs(),
		QuickFilter:   string(sel.QuickFilter()),
		Category:      sel.CategoryChoice(),
		Ceiling:       sel.Ceiling(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal selection: %w", err)
	}
	return data, nil
}

func decodeSelection(data []byte) (selection.Selection, error) {
	var dto selectionDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return selection.Selection{}, fmt.Errorf("unmarshal selection: %w", err)
	}
	sel, err := selection.New(dto.InstituteType, dto.Programs, dto.QuickFilter, dto.Category, dto.Ceiling)
	if err != nil {
		return selection.Selection{}, fmt.Errorf("hydrate selection: %w", err)
	}
	return sel, nil
}
