package llm

import "fmt"

const (
	clarifySystem   = "Rewrite the request as a single clear research focus sentence."
	strategySystem  = "Generate country and strategy pairs exactly in the requested format."
	summarizeSystem = "Produce 3 to 5 strictly factual sentences, one per line, grounded only in the provided text."
	verifySystem    = "Fact-check each summary sentence strictly against the text and output one STATUS line per sentence."
)

// BuildClarifyPrompt asks for one research-focus sentence
func BuildClarifyPrompt(request string) string {
	return fmt.Sprintf(`You are a research assistant helping a consultant.

The user wrote this research request:

"""%s"""

Rewrite it as ONE concise research focus sentence usable as a brief.
It should name the topic and the main angle (comparison, overview, impact) without filler.

Return ONLY the sentence: no bullet points, no quotes, no explanation.
`, request)
}

// BuildStrategyPrompt asks for up to maxStrategies "Country | Strategy" lines
func BuildStrategyPrompt(focus string, maxStrategies int) string {
	return fmt.Sprintf(`You are a policy research assistant.

Research focus:
%s

Task:
1. List up to %d countries relevant to this research focus.
2. For each country give the official or commonly used name of the main national strategy,
   plan or policy on this topic.
3. If the exact official name is unknown, give a realistic short working title.

Output format:
- Plain text only.
- Each line exactly: Country name | Strategy or plan name
- No bullets, no numbering, no commentary, no quotes.

Example:
Germany | National Sustainable Mobility Strategy
Japan | Next-Generation Mobility Strategy
`, focus, maxStrategies)
}

// BuildSummaryPrompt asks for short text-grounded sentences, one per line
func BuildSummaryPrompt(country, strategy, text string) string {
	return fmt.Sprintf(`You are a neutral policy research assistant.

Country: %s
Strategy name: %s

You are given text extracted from this strategy.

Task:
1. Write a concise factual summary in 3 to 5 sentences.
2. Cover only what the text clearly states: objectives, priority areas, key programmes, implementation focus.
3. Do not interpret, predict, critique or add information.
4. Every sentence must be directly supported by the text.
5. One sentence per line. No bullets, no numbering, no quotes, no commentary.

Extracted text:

"""%s"""
`, country, strategy, text)
}

// BuildVerifyPrompt asks for one "STATUS | reason" line per numbered sentence
func BuildVerifyPrompt(country, strategy, text, numbered string) string {
	return fmt.Sprintf(`You are a strict fact-checking assistant.

Country: %s
Strategy name: %s

Extracted text from the strategy:
"""%s"""

Summary sentences to verify:
%s

For each summary sentence decide whether it is:
- Verified: fully supported by the text
- Partially verified: partly supported, partly unclear
- Not verified: unsupported or contradicted by the text

Do not be generous. Use only the provided text, not prior knowledge.

Output exactly one line per sentence, in the same order:
STATUS | very short reason

STATUS must be one of: Verified, Partially verified, Not verified

Example:
Verified | goal stated in the first paragraph
Partially verified | funding mentioned without an amount
Not verified | no timeline in the text
`, country, strategy, text, numbered)
}
