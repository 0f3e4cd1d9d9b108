package ai

import (
	"encoding/json"
	"fmt"
)

func strategyJSON(days int) string {
	calendar := make([]map[string]any, 0, days)
	for i := 1; i <= days; i++ {
		calendar = append(calendar, map[string]any{
			"day":         i,
			"platform":    "YouTube",
			"title":       fmt.Sprintf("Episode %d", i),
			"format":      "Short",
			"description": "Quick tip",
		})
	}
	doc := map[string]any{
		"trendDiscovery":   "Beginner programs are trending",
		"contentAnalysis":  map[string]any{"formats": []string{"Short", "Long"}},
		"competitorReport": "Competitors post weekly",
		"strategyCalendar": calendar,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return string(b)
}
