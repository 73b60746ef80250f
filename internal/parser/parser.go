package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/macrosnap/backend/internal/models"
)

var (
	// ErrParse means the vision answer could not be turned into a valid record.
	ErrParse = errors.New("could not parse nutrition data")
	// ErrValidation means a macro value failed the non-negativity check.
	ErrValidation = errors.New("invalid nutrition value")
)

// requiredMacros have no safe default; a record without them is rejected.
var requiredMacros = []string{"calories", "protein_g", "carbs_g", "fats_g"}

// Parse converts the vision model's raw output into a NutritionRecord.
// The model is prompted to answer with a bare JSON object, but markdown code
// fences around it are tolerated. Fiber defaults to zero when omitted; the
// other four macros are mandatory. CreatedAt is stamped at parse time.
func Parse(raw, userID, username string) (*models.NutritionRecord, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripFences(raw)), &doc); err != nil {
		return nil, fmt.Errorf("%w: response is not a JSON object", ErrParse)
	}

	// The model reports refusals as {"error": "..."}.
	if msg, ok := doc["error"]; ok {
		var reason string
		if err := json.Unmarshal(msg, &reason); err != nil || reason == "" {
			reason = "model could not analyze the image"
		}
		return nil, fmt.Errorf("%w: %s", ErrParse, reason)
	}

	foodName, err := stringField(doc, "food_name")
	if err != nil {
		return nil, err
	}
	if foodName == "" {
		return nil, fmt.Errorf("%w: empty food_name", ErrParse)
	}

	macros := make(map[string]float64, 5)
	for _, field := range requiredMacros {
		v, ok, err := numberField(doc, field)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrParse, field)
		}
		macros[field] = v
	}

	// Fiber is the one macro with a safe default.
	fiber, ok, err := numberField(doc, "fiber_g")
	if err != nil {
		return nil, err
	}
	if !ok {
		fiber = 0
	}
	macros["fiber_g"] = fiber

	for field, v := range macros {
		if v < 0 {
			return nil, fmt.Errorf("%w: negative %s", ErrValidation, field)
		}
	}

	servingSize, err := stringField(doc, "serving_size")
	if err != nil {
		return nil, err
	}
	confidence, err := stringField(doc, "confidence")
	if err != nil {
		return nil, err
	}

	return &models.NutritionRecord{
		ID:          uuid.New(),
		UserID:      userID,
		Username:    username,
		FoodName:    foodName,
		Calories:    macros["calories"],
		ProteinG:    macros["protein_g"],
		CarbsG:      macros["carbs_g"],
		FatsG:       macros["fats_g"],
		FiberG:      macros["fiber_g"],
		ServingSize: servingSize,
		Confidence:  strings.ToLower(confidence),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func stringField(doc map[string]json.RawMessage, field string) (string, error) {
	msg, ok := doc[field]
	if !ok {
		return "", nil
	}
	var v string
	if err := json.Unmarshal(msg, &v); err != nil {
		return "", fmt.Errorf("%w: %s is not a string", ErrParse, field)
	}
	return strings.TrimSpace(v), nil
}

func numberField(doc map[string]json.RawMessage, field string) (float64, bool, error) {
	msg, ok := doc[field]
	if !ok {
		return 0, false, nil
	}
	var v float64
	if err := json.Unmarshal(msg, &v); err != nil {
		return 0, false, fmt.Errorf("%w: %s is not numeric", ErrParse, field)
	}
	return v, true, nil
}
