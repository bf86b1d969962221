// Package core provides filtering, sorting, and lookup logic for events.
package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jmylchreest/spot/internal/model"
)

// FilterOp represents a comparison operator.
type FilterOp string

const (
	FilterOpEqual     FilterOp = "="  // Exact match
	FilterOpNotEqual  FilterOp = "!=" // Not equal
	FilterOpContains  FilterOp = "~"  // Contains substring
	FilterOpRegex     FilterOp = "~=" // Regex match
	FilterOpGreater   FilterOp = ">"  // Greater than
	FilterOpLess      FilterOp = "<"  // Less than
	FilterOpGreaterEq FilterOp = ">=" // Greater than or equal
	FilterOpLessEq    FilterOp = "<=" // Less than or equal
)

// FilterCondition represents a single filter condition.
type FilterCondition struct {
	Field    string   // Field name: label, kind, source, id, timestamp
	Operator FilterOp // Comparison operator
	Value    string   // Value to compare against

	// Cached parsed values for efficiency
	regex       *regexp.Regexp // Compiled regex for ~= operator
	timestampOp time.Time      // Parsed timestamp for comparison
}

// FilterExpr represents a compound filter expression.
// Multiple conditions are ANDed together.
type FilterExpr struct {
	Conditions []FilterCondition
}

// FilterOptions specifies criteria for filtering events.
type FilterOptions struct {
	Since  time.Duration   // Filter to events newer than now-since (0=all)
	Label  string          // Exact match on panel label
	Kind   model.EventKind // Filter by event kind (empty=any)
	Source string          // Exact match on transition source
	Limit  int             // Maximum results (0=unlimited)
}

// Filter filters events based on the provided options.
func Filter(events []model.Event, opts FilterOptions) []model.Event {
	now := time.Now()
	result := make([]model.Event, 0, len(events))

	for _, e := range events {
		// Time filter
		if opts.Since > 0 {
			cutoff := now.Add(-opts.Since)
			if time.Unix(e.Timestamp, 0).Before(cutoff) {
				continue
			}
		}

		// Label filter
		if opts.Label != "" && e.Label != opts.Label {
			continue
		}

		// Kind filter
		if opts.Kind != "" && e.Kind != opts.Kind {
			continue
		}

		// Source filter
		if opts.Source != "" && e.Source != opts.Source {
			continue
		}

		result = append(result, e)
	}

	// Apply limit
	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}

	return result
}

// ParseDuration parses a duration string with extended formats.
// Supports: 48h, 7d, 1w, 0 (all time)
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	// Special case: 0 means no filter (all time)
	if s == "0" || s == "" {
		return 0, nil
	}

	// Handle day suffix (7d -> 168h)
	if daysStr, found := strings.CutSuffix(s, "d"); found {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	// Handle week suffix (1w -> 168h)
	if weeksStr, found := strings.CutSuffix(s, "w"); found {
		weeks, err := strconv.Atoi(weeksStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(weeks) * 7 * 24 * time.Hour, nil
	}

	// Standard Go duration parsing
	return time.ParseDuration(s)
}

// ParseKind parses an event kind string to its canonical form.
// Accepts: registered, shown, hidden, hide-all (also hideall, hide_all)
func ParseKind(s string) (model.EventKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "registered":
		return model.EventRegistered, nil
	case "shown":
		return model.EventShown, nil
	case "hidden":
		return model.EventHidden, nil
	case "hide-all", "hideall", "hide_all":
		return model.EventHideAll, nil
	default:
		return "", fmt.Errorf("invalid event kind: %s (use registered, shown, hidden, or hide-all)", s)
	}
}

// ParseFilter parses a filter expression string into a FilterExpr.
// Format: "field=value,field2~value2,field3>value3"
// Multiple conditions are comma-separated and ANDed together.
//
// Supported fields: label, kind, source, id, timestamp
// Supported operators: = (equal), != (not equal), ~ (contains), ~= (regex), >, <, >=, <=
//
// Examples:
//   - "label=scratchpad" - exact label match
//   - "kind=hidden" - only hide transitions
//   - "source=shortcut,kind=shown" - panels shown via their toggle shortcut
//   - "label~=(?i)term" - label matches regex (case-insensitive "term")
//   - "timestamp>1h" - events from the last hour
func ParseFilter(expr string) (*FilterExpr, error) {
	if expr == "" {
		return &FilterExpr{}, nil
	}

	filter := &FilterExpr{
		Conditions: make([]FilterCondition, 0),
	}

	// Split by comma
	for part := range strings.SplitSeq(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		cond, err := parseCondition(part)
		if err != nil {
			return nil, err
		}
		filter.Conditions = append(filter.Conditions, cond)
	}

	return filter, nil
}

// parseCondition parses a single condition like "label=scratchpad" or "kind~hid"
func parseCondition(s string) (FilterCondition, error) {
	// Try operators in order of specificity (longest first)
	operators := []FilterOp{
		FilterOpNotEqual,  // != (must be before =)
		FilterOpGreaterEq, // >= (must be before >)
		FilterOpLessEq,    // <= (must be before <)
		FilterOpRegex,     // ~= (must be before ~)
		FilterOpEqual,
		FilterOpContains,
		FilterOpGreater,
		FilterOpLess,
	}

	for _, op := range operators {
		idx := strings.Index(s, string(op))
		if idx > 0 {
			field := strings.TrimSpace(s[:idx])
			value := strings.TrimSpace(s[idx+len(op):])

			cond := FilterCondition{
				Field:    strings.ToLower(field),
				Operator: op,
				Value:    value,
			}

			// Pre-parse and validate based on field type
			if err := cond.init(); err != nil {
				return FilterCondition{}, err
			}

			return cond, nil
		}
	}

	return FilterCondition{}, fmt.Errorf("invalid filter condition: %s (missing operator)", s)
}

// init pre-parses and validates the condition value.
func (c *FilterCondition) init() error {
	switch c.Field {
	case "label", "panel", "window":
		c.Field = "label" // Normalize
	case "kind", "event", "type":
		c.Field = "kind"
		// Normalize the kind value for exact comparisons
		if c.Operator == FilterOpEqual || c.Operator == FilterOpNotEqual {
			k, err := ParseKind(c.Value)
			if err != nil {
				return err
			}
			c.Value = string(k)
		}
	case "source", "src":
		c.Field = "source"
	case "id":
		c.Field = "id"
	case "timestamp", "time", "ts":
		c.Field = "timestamp"
		// Parse duration for relative time comparisons
		dur, err := ParseDuration(c.Value)
		if err != nil {
			return fmt.Errorf("invalid timestamp value: %w", err)
		}
		c.timestampOp = time.Now().Add(-dur)
	default:
		return fmt.Errorf("unknown filter field: %s", c.Field)
	}

	// Compile regex if needed
	if c.Operator == FilterOpRegex {
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		c.regex = re
	}

	return nil
}

// Match tests if an event matches the filter expression.
// All conditions must match (AND logic).
func (f *FilterExpr) Match(e model.Event) bool {
	for _, cond := range f.Conditions {
		if !cond.Match(e) {
			return false
		}
	}
	return true
}

// Match tests if an event matches this single condition.
func (c *FilterCondition) Match(e model.Event) bool {
	switch c.Field {
	case "label":
		return c.matchString(e.Label)
	case "kind":
		return c.matchString(string(e.Kind))
	case "source":
		return c.matchString(e.Source)
	case "id":
		return c.matchString(e.ID)
	case "timestamp":
		return c.matchTimestamp(time.Unix(e.Timestamp, 0))
	default:
		return false
	}
}

// matchString matches a string field.
func (c *FilterCondition) matchString(fieldValue string) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.Value
	case FilterOpNotEqual:
		return fieldValue != c.Value
	case FilterOpContains:
		return strings.Contains(strings.ToLower(fieldValue), strings.ToLower(c.Value))
	case FilterOpRegex:
		return c.regex != nil && c.regex.MatchString(fieldValue)
	default:
		return false
	}
}

// matchTimestamp matches a timestamp field.
func (c *FilterCondition) matchTimestamp(fieldValue time.Time) bool {
	switch c.Operator {
	case FilterOpGreater:
		return fieldValue.After(c.timestampOp)
	case FilterOpLess:
		return fieldValue.Before(c.timestampOp)
	case FilterOpGreaterEq:
		return fieldValue.After(c.timestampOp) || fieldValue.Equal(c.timestampOp)
	case FilterOpLessEq:
		return fieldValue.Before(c.timestampOp) || fieldValue.Equal(c.timestampOp)
	default:
		return false
	}
}

// FilterWithExpr filters events using a filter expression.
func FilterWithExpr(events []model.Event, expr *FilterExpr) []model.Event {
	if expr == nil || len(expr.Conditions) == 0 {
		return events
	}

	result := make([]model.Event, 0, len(events))
	for _, e := range events {
		if expr.Match(e) {
			result = append(result, e)
		}
	}
	return result
}
