package report

import (
	"sort"
	"time"

	"farmbook/internal/core"
)

const (
	EventHarvest EventKind = "harvest"
	EventTodo    EventKind = "todo"
)

type EventKind string

// Event is an upcoming item for the dashboard: either a candidate harvest
// with a date, or a pending todo without one.
type Event struct {
	Kind  EventKind
	Date  core.Date // zero for todos
	Title string
	RefID string
}

// UpcomingEvents lists unharvested crops whose estimated harvest date falls
// in [now, now+horizonDays], sorted ascending by date, followed by all
// incomplete todos. This is a plain filter and sort, not a scheduler.
func UpcomingEvents(crops []core.Crop, todos []core.Todo, now time.Time, horizonDays int) []Event {
	today := core.DateOf(now)
	horizon := core.DateOf(now.AddDate(0, 0, horizonDays))

	var out []Event
	for _, c := range crops {
		if !c.ActualHarvestDate.IsEmpty() {
			continue
		}
		d := c.EstimatedHarvestDate
		if d.OnOrAfter(today) && d.OnOrBefore(horizon) {
			out = append(out, Event{Kind: EventHarvest, Date: d, Title: c.Name, RefID: c.ID})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Time.Before(out[j].Date.Time)
	})

	for _, td := range todos {
		if td.Completed {
			continue
		}
		out = append(out, Event{Kind: EventTodo, Title: td.Task, RefID: td.ID})
	}
	return out
}
