package report

import (
	"math"
	"sort"
)

// CompareTotals computes the per-category movement between two period
// aggregates. Base is the reference period, compare the one being explained.
func CompareTotals(base, compare Totals) []Delta {
	return []Delta{
		{Label: "Fuel", Base: base.Fuel, Compare: compare.Fuel, Delta: round2(compare.Fuel - base.Fuel)},
		{Label: "Salaries", Base: base.Salary, Compare: compare.Salary, Delta: round2(compare.Salary - base.Salary)},
		{Label: "Fixed expenses", Base: base.Fixed, Compare: compare.Fixed, Delta: round2(compare.Fixed - base.Fixed)},
		{Label: "Maintenance", Base: base.Maintenance, Compare: compare.Maintenance, Delta: round2(compare.Maintenance - base.Maintenance)},
	}
}

// MaterialDeltas converts a project materials table into labelled deltas,
// budgeted as the base and allocated as the compare side.
func MaterialDeltas(rows []MaterialRow) []Delta {
	deltas := make([]Delta, 0, len(rows))
	for _, r := range rows {
		deltas = append(deltas, Delta{
			Label:   r.Material,
			Base:    r.BudgetCost,
			Compare: r.AllocatedCost,
			Delta:   round2(r.AllocatedCost - r.BudgetCost),
		})
	}
	return deltas
}

// BuildComparison assembles the variance output for two aggregate totals.
// The waterfall opens with the absolute base total, walks the material
// deltas sorted descending, rolls every sub-threshold delta into one
// "Other" bucket and closes with the absolute compare total, so the steps
// always sum exactly to the closing bar. When nothing moved materially the
// comparison is flagged not significant and carries no waterfall.
func BuildComparison(baseLabel, compareLabel string, baseTotal, compareTotal float64, deltas []Delta) Comparison {
	cmp := Comparison{
		BaseTotal:    round2(baseTotal),
		CompareTotal: round2(compareTotal),
		Deltas:       deltas,
		TotalDelta:   round2(compareTotal - baseTotal),
	}

	material := make([]Delta, 0, len(deltas))
	var otherSum float64
	for _, d := range deltas {
		if math.Abs(d.Delta) >= MaterialityThreshold {
			material = append(material, d)
		} else {
			otherSum += d.Delta
		}
	}

	if len(material) == 0 && math.Abs(cmp.TotalDelta) < MaterialityThreshold {
		cmp.Significant = false
		return cmp
	}
	cmp.Significant = true

	sort.SliceStable(material, func(i, j int) bool {
		return material[i].Delta > material[j].Delta
	})

	steps := make([]Step, 0, len(material)+3)
	steps = append(steps, Step{
		Label:       baseLabel,
		Kind:        StepAbsolute,
		Value:       round2(baseTotal),
		DisplayText: FormatAmount(baseTotal),
	})
	for _, d := range material {
		steps = append(steps, Step{
			Label:       d.Label,
			Kind:        StepRelative,
			Value:       d.Delta,
			DisplayText: FormatDelta(d.Delta),
		})
	}
	otherSum = round2(otherSum)
	if otherSum != 0 {
		steps = append(steps, Step{
			Label:       "Other",
			Kind:        StepRelative,
			Value:       otherSum,
			DisplayText: FormatDelta(otherSum),
		})
	}
	steps = append(steps, Step{
		Label:       compareLabel,
		Kind:        StepTotal,
		Value:       round2(compareTotal),
		DisplayText: FormatAmount(compareTotal),
	})
	cmp.Waterfall = steps
	return cmp
}
