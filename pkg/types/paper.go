// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PaperType distinguishes the main paper from its sub-niche companion.
type PaperType string

const (
	PaperMain     PaperType = "main"
	PaperSubNiche PaperType = "sub-niche"
)

// FileTag is inserted before the date in artifact filenames so a sub-niche
// paper does not overwrite the main paper generated the same day.
func (t PaperType) FileTag() string {
	if t == PaperSubNiche {
		return "subniche_"
	}
	return ""
}

// PaperRequest is the input to generation: a topic and its role.
type PaperRequest struct {
	Topic string    `json:"topic"`
	Type  PaperType `json:"paper_type"`

	// MainTopic is set for sub-niche papers only.
	MainTopic string `json:"main_topic,omitempty"`
}

// Section is one titled part of the paper body. Body holds Markdown.
type Section struct {
	Name string `json:"name" yaml:"name"`
	Body string `json:"body" yaml:"body"`
}

// PaperData is the generated draft, serialized as paper_data_<date>.json.
type PaperData struct {
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	Author      string    `json:"author"`
	ORCID       string    `json:"orcid,omitempty"`
	Affiliation string    `json:"affiliation,omitempty"`
	Email       string    `json:"email,omitempty"`
	Date        string    `json:"date"`
	DateShort   string    `json:"date_short"`
	Keywords    []string  `json:"keywords"`
	JELCodes    []string  `json:"jel_codes"`
	Abstract    string    `json:"abstract"`
	Sections    []Section `json:"sections"`
	Topic       string    `json:"topic"`
	PaperType   PaperType `json:"paper_type"`
	MainTopic   string    `json:"main_topic,omitempty"`

	// Model records which generator produced the draft.
	Model string `json:"model,omitempty"`
}

// DualResult pairs a main paper with its sub-niche paper.
type DualResult struct {
	MainTopic     string    `json:"main_topic"`
	SubNicheTopic string    `json:"sub_niche_topic"`
	Main          PaperData `json:"main_paper"`
	SubNiche      PaperData `json:"sub_niche_paper"`
}

// Metadata is the flat record logged for each paper.
type Metadata struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Author   string `json:"author"`
	ORCID    string `json:"orcid"`
	Email    string `json:"email"`

	// Affiliation appears in submission info but not in the CSV log.
	Affiliation string `json:"affiliation,omitempty"`

	Date      string `json:"date"`
	DateShort string `json:"date_short"`
	Keywords  string `json:"keywords"`
	JELCodes  string `json:"jel_codes"`
	Topic     string `json:"topic"`
	WordCount int    `json:"word_count"`
	EJournals string `json:"ejournals"`
	Abstract  string `json:"abstract"`

	PaperType PaperType `json:"paper_type,omitempty"`
}
