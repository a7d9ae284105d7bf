package main

import (
	"fmt"
	"strings"

	"github.com/rebeliceyang/ctower/internal/combination"
	"github.com/rebeliceyang/ctower/internal/models"
)

// whereClause is one --where flag: tab.field=operator[:value]
type whereClause struct {
	Tab      string
	Field    string
	Operator models.FilterOperator
	Value    models.FilterValue
}

// parseWhere parses "fcl.carrier=equals:MSC", "precarriage.20GP=equals:100..900",
// "fcl.transitPort=contains:a..b" (a literal substring),
// "fcl.carrier=batch:MSC,ONE" or "oncarriage.zipCode=is_empty".
func parseWhere(expr string) (whereClause, error) {
	target, rest, ok := strings.Cut(expr, "=")
	if !ok {
		return whereClause{}, fmt.Errorf("invalid --where '%s': expected tab.field=operator:value", expr)
	}
	tab, field, ok := strings.Cut(strings.TrimSpace(target), ".")
	if !ok || tab == "" || field == "" {
		return whereClause{}, fmt.Errorf("invalid --where '%s': expected tab.field on the left side", expr)
	}

	opName, raw, _ := strings.Cut(rest, ":")
	op := models.FilterOperator(strings.TrimSpace(opName))
	if !op.Valid() {
		return whereClause{}, fmt.Errorf("invalid --where '%s': unknown operator '%s'", expr, opName)
	}

	w := whereClause{Tab: tab, Field: field, Operator: op}
	switch {
	case !op.TakesValue():
	case op == models.OpBatch:
		w.Value = models.ParseBatch(raw)
	case op == models.OpContains || op == models.OpNotContains:
		w.Value = models.Scalar(raw)
	case strings.Contains(raw, ".."):
		from, to, _ := strings.Cut(raw, "..")
		w.Value = models.Range(strings.TrimSpace(from), strings.TrimSpace(to))
	default:
		w.Value = models.Scalar(raw)
	}
	return w, nil
}

// parseLegs parses a comma list of pre, main and on into a mask
func parseLegs(list string) (models.LegSelectionMask, error) {
	var mask models.LegSelectionMask
	for _, part := range strings.Split(list, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "pre", "precarriage":
			mask.Precarriage = true
		case "main", "mainline":
			mask.Mainline = true
		case "on", "oncarriage":
			mask.Oncarriage = true
		case "":
		default:
			return models.LegSelectionMask{}, fmt.Errorf("unknown leg '%s'", part)
		}
	}
	if !mask.Any() {
		return models.LegSelectionMask{}, fmt.Errorf("at least one leg must be enabled")
	}
	return mask, nil
}

// parseSelection parses leg=id pairs into a selection; nil when none are given
func parseSelection(pairs []string) (*combination.Selection, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	sel := &combination.Selection{}
	for _, p := range pairs {
		leg, id, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --select '%s': expected leg=id", p)
		}
		id = strings.TrimSpace(id)
		switch strings.ToLower(strings.TrimSpace(leg)) {
		case "pre", "precarriage":
			sel.PrecarriageID = id
		case "main", "mainline":
			sel.MainlineID = id
		case "on", "oncarriage":
			sel.OncarriageID = id
		default:
			return nil, fmt.Errorf("invalid --select '%s': unknown leg '%s'", p, leg)
		}
	}
	return sel, nil
}

// parsePairs splits tab=value flags into a map
func parsePairs(flag string, pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --%s '%s': expected tab=value", flag, p)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out, nil
}
