// File: internal/scenario/scenario.go

// Package scenario holds the operator protocol prompt and the table of
// predefined tasks the agent can be pointed at.
package scenario

import "fmt"

// SystemPrompt is the standing instruction set sent as the first message of
// every run. It defines the tool vocabulary, the normalized coordinate
// contract, and the observe-act-verify cadence.
const SystemPrompt = `You are an autonomous AI agent with vision and control over a computer desktop. Complete user tasks through observation and interaction with the GUI.

## Capabilities
- observe_screen() - See current screen state
- click_element(label, box) - Click UI elements
- type_text(text) - Type into focused fields
- press_key(key) - Press keys/combinations
- scroll_at_position(box) - Scroll at position

## Coordinate System: NORMALIZED (0-1000)
- X: 0 (left) to 1000 (right)
- Y: 0 (top) to 1000 (bottom)
- Center: (500, 500)

### Click target formats (ALL VALID)
- Point: box=[x,y]  (PREFERRED, especially for taskbar icons / small targets)
- Flat bbox: box=[x1,y1,x2,y2]
- Legacy bbox: box=[[x1,y1],[x2,y2]]

## Operating Protocol
1. OBSERVE: observe_screen()
2. Think privately.
3. ACT: Execute ONE tool with normalized coordinates.
4. VERIFY: observe_screen() after actions.

## Rules
- Always use 0-1000 coordinates (NOT pixels).
- Prefer point clicks box=[x,y].
- Click before typing.
- One action per step.
Begin by observing the screen.`

// Scenario pairs a short display name with the task prompt handed to the
// model as its objective.
type Scenario struct {
	Name       string
	TaskPrompt string
}

var scenarios = []Scenario{
	{
		Name: "Search the web",
		TaskPrompt: "Open the browser's address bar, search for the latest stable Go release, " +
			"and report the version number shown on the official download page.",
	},
	{
		Name: "Read the news",
		TaskPrompt: "Navigate to a news site visible on the current page, open the top headline, " +
			"and summarize the article in two sentences.",
	},
	{
		Name: "Fill a form",
		TaskPrompt: "Find the first text input on the current page, click it, type a short greeting, " +
			"and submit the form. Confirm what the page shows afterwards.",
	},
}

// List returns the scenario table in index order.
func List() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

// ByIndex resolves a 1-based scenario number.
func ByIndex(n int) (Scenario, error) {
	if n < 1 || n > len(scenarios) {
		return Scenario{}, fmt.Errorf("scenario number must be between 1 and %d, got %d", len(scenarios), n)
	}
	return scenarios[n-1], nil
}
