package svg

import (
	"strings"
	"testing"

	"github.com/cantera-ops/cantera/internal/report"
)

func TestWaterfallProducesSVG(t *testing.T) {
	steps := []report.Step{
		{Label: "January", Kind: report.StepAbsolute, Value: 100, DisplayText: "100.00"},
		{Label: "Fuel", Kind: report.StepRelative, Value: 30, DisplayText: "+30.00"},
		{Label: "Salaries", Kind: report.StepRelative, Value: 20, DisplayText: "+20.00"},
		{Label: "February", Kind: report.StepTotal, Value: 150, DisplayText: "150.00"},
	}
	html, err := Waterfall(720, 280, steps, WaterfallOpts{
		Title:       "Cost variance",
		Description: "January versus February",
	})
	if err != nil {
		t.Fatalf("waterfall renderer error: %v", err)
	}
	output := string(html)
	if !strings.HasPrefix(output, "<svg") {
		t.Fatalf("expected svg output, got %s", output)
	}
	if !strings.Contains(output, "<rect") {
		t.Fatalf("expected rect bars in svg")
	}
	if !strings.Contains(output, "Salaries") {
		t.Fatalf("expected step label in svg")
	}
	if !strings.Contains(output, "+30.00") {
		t.Fatalf("expected delta annotation in svg")
	}
}

func TestWaterfallNegativeDelta(t *testing.T) {
	steps := []report.Step{
		{Label: "Base", Kind: report.StepAbsolute, Value: 100},
		{Label: "Maintenance", Kind: report.StepRelative, Value: -40},
		{Label: "Compare", Kind: report.StepTotal, Value: 60},
	}
	html, err := Waterfall(0, 0, steps, WaterfallOpts{})
	if err != nil {
		t.Fatalf("waterfall renderer error: %v", err)
	}
	if !strings.Contains(string(html), "Maintenance") {
		t.Fatalf("expected decrease bar in svg")
	}
}

func TestWaterfallRequiresSteps(t *testing.T) {
	if _, err := Waterfall(720, 280, nil, WaterfallOpts{}); err == nil {
		t.Fatalf("expected error for missing steps")
	}
	if _, err := Waterfall(720, 280, []report.Step{{Label: "only"}}, WaterfallOpts{}); err == nil {
		t.Fatalf("expected error for a single step")
	}
}
