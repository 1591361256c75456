// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OutlineSection describes one section the generator writes.
type OutlineSection struct {
	// Name is the section heading.
	Name string `json:"name" yaml:"name"`

	// Purpose tells the model what the section covers.
	Purpose string `json:"purpose" yaml:"purpose"`
}

// Outline is the ordered list of body sections, loaded from outline.yaml.
type Outline struct {
	Sections []OutlineSection `json:"sections" yaml:"sections"`
}

// DefaultOutline returns the five-section structure used when no outline
// file is configured.
func DefaultOutline() Outline {
	return Outline{Sections: []OutlineSection{
		{Name: "Introduction", Purpose: "Introduce the research question, motivation, and contribution"},
		{Name: "Methodology", Purpose: "Describe the research approach, candidate data sources, and analytical framework"},
		{Name: "Analysis", Purpose: "Develop the main argument and state which evidence would support or refute it"},
		{Name: "Discussion", Purpose: "Interpret the argument and discuss implications and limitations"},
		{Name: "Conclusion", Purpose: "Summarize the argument and suggest future research directions"},
	}}
}
