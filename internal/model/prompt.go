// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"bytes"
	"text/template"
)

// classifyPromptTmpl asks the model for exactly one JSON object. The
// incident type set is injected from the keyword configuration so prompt
// and validation never drift apart.
var classifyPromptTmpl = template.Must(template.New("classify").Parse(`You are an incident analysis assistant.
Task: Analyze the following incident report and return ONLY valid JSON.

Message: "{{.Message}}"

Output JSON format:
{
    "location": "Extracted location name, or empty string if none",
    "incident_type": "Choose one of: {{.Types}}",
    "threat_level": "yes or no"
}

Important:
- If the message contains phrases like "لا تهديد", threat_level must be "no".
- Respond with JSON only, no explanations.
`))

// renderPrompt executes the classification prompt template.
func renderPrompt(message, typeList string) (string, error) {
	var buf bytes.Buffer
	err := classifyPromptTmpl.Execute(&buf, struct {
		Message string
		Types   string
	}{Message: message, Types: typeList})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
