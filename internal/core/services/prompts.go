package services

import (
	"fmt"
	"strings"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
)

// topicExtractionPrompt asks for candidate topics from one unit of text.
// The instructions lean hard on "JSON only" because local models routinely
// wrap output in prose or markdown fences; the tolerant parser handles what
// slips through anyway.
func topicExtractionPrompt(title, label, unitText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert educator analyzing %q", title)
	if label != "" {
		fmt.Fprintf(&b, " (%s)", label)
	}
	b.WriteString(".\n\n")
	b.WriteString(`Your task is to identify the key topics that a student should understand from this part of the text.

Text:
`)
	b.WriteString(unitText)
	b.WriteString(`

Identify up to 8 candidate learning topics. For each topic:
1. Provide a clear, concise title
2. Write a brief description (1-2 sentences) of what it covers
3. Estimate the importance level (High/Medium/Low)
4. List a few keywords useful for locating the topic in the text

CRITICAL INSTRUCTIONS:
- Respond with ONLY a valid JSON array
- NO explanations, NO extra text, NO markdown
- Start your response with [ and end with ]

Format your response EXACTLY as this JSON array:
[
  {
    "title": "Topic Title",
    "description": "What this topic covers",
    "importance": "High",
    "keywords": ["keyword1", "keyword2"]
  }
]

Return ONLY the JSON array.`)
	return b.String()
}

// passageRelevancePrompt asks which of the numbered passages matter most for
// a topic. The model answers with a JSON array of passage numbers ordered by
// relevance.
func passageRelevancePrompt(topic domain.Topic, passages []domain.Passage, topK int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\nDescription: %s\n\n", topic.Title, topic.Description)
	b.WriteString("Below are passages from a document. Identify the passage numbers that are MOST RELEVANT to this topic.\n\n")
	for i, p := range passages {
		fmt.Fprintf(&b, "[Passage %d]\n%s\n\n", i+1, p.Text)
	}
	fmt.Fprintf(&b, `Return ONLY a JSON array of the most relevant passage numbers (top %d), ordered by relevance:
[1, 5, 12]

Consider a passage relevant if it:
- Directly discusses the topic
- Provides essential background or context
- Contains key examples or explanations

Respond ONLY with the JSON array of passage numbers.`, topK)
	return b.String()
}
