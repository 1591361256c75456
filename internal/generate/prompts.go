// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"text/template"
)

// Task names carried on each Prompt.
const (
	TaskSubNiche = "sub-niche"
	TaskTitle    = "title"
	TaskSubtitle = "subtitle"
	TaskKeywords = "keywords"
	TaskJEL      = "jel"
	TaskAbstract = "abstract"
	TaskSection  = "section"
)

const systemPrompt = `You are a research writing assistant producing a first draft for a human author to review, verify, and revise. Respond with the requested text only, without preamble. Do not invent data, statistics, citations, or empirical results; where evidence would be needed, describe what evidence and method would answer the question.`

var promptTemplates = template.Must(template.New("prompts").Parse(`
{{define "sub-niche"}}Given this main research topic: "{{.Topic}}"

Identify ONE specific sub-niche or focused aspect that would make a strong standalone paper.

Requirements:
- A narrower, more specific aspect of the main topic
- Substantive enough for a full paper
- Academic terminology, specific and concrete
- Maximum 8 words

Return ONLY the sub-niche topic.{{end}}

{{define "title"}}Generate an academic paper title that uses contra-suggestive phrasing (opposing or paradoxical concepts), for example "Efficient Inefficiency: Market Microstructure and Price Discovery Paradoxes".

Topic: {{.Topic}}

Requirements:
- Specific to the topic
- Professional academic register
- Maximum 15 words

Return ONLY the title.{{end}}

{{define "subtitle"}}Given this paper title: "{{.Title}}"

Generate a subtitle that expands on it. Specific and informative, active language, maximum 12 words.

Return ONLY the subtitle.{{end}}

{{define "keywords"}}Generate 5-7 keywords for this paper.

Title: {{.Title}}
Topic: {{.Topic}}

Use finance, economics, or business research terminology, mixing broad and specific terms. Return ONLY a comma-separated list.{{end}}

{{define "jel"}}Suggest 3-4 JEL classification codes for this paper.

Title: {{.Title}}
Topic: {{.Topic}}

Return ONLY the codes as a comma-separated list (e.g. D83, G11, C91).{{end}}

{{define "abstract"}}Draft an abstract for this paper.

Title: {{.Title}}
Subtitle: {{.Subtitle}}
Topic: {{.Topic}}

Requirements:
- Maximum {{.MaxWords}} words
- State the research question, the approach, and the argument
- Do not report findings or numbers that have not been established{{end}}

{{define "section"}}Draft the {{.Section}} section of this paper.

Title: {{.Title}}
Subtitle: {{.Subtitle}}
Topic: {{.Topic}}
Section purpose: {{.Purpose}}

Requirements:
- 3-4 paragraphs in Markdown, no heading line
- Reasoned argument with concrete examples from the established literature the author can verify
- Where data would be needed, name the data and method rather than stating results
- Do not mention the author by name{{end}}
`))

// promptData feeds the templates.
type promptData struct {
	Topic    string
	Title    string
	Subtitle string
	Section  string
	Purpose  string
	MaxWords int
}

func buildPrompt(task string, d promptData, temperature float64, maxTokens int) (Prompt, error) {
	var buf bytes.Buffer
	if err := promptTemplates.ExecuteTemplate(&buf, task, d); err != nil {
		return Prompt{}, err
	}
	return Prompt{
		Task:        task,
		System:      systemPrompt,
		User:        buf.String(),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}, nil
}
