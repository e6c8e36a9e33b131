package steps

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/factorysim/internal/application/simulation"
	"github.com/andrescamacho/factorysim/internal/domain/factory"
	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

// scenarioDay is the calendar date every scenario runs on
var scenarioDay = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

// floorContext is the state shared by every step file within one scenario
type floorContext struct {
	engine     *simulation.Engine
	operations map[string]*factory.Operation
	events     *eventLog
	lastResult *simulation.ExecutionResult
}

var globalFloor = &floorContext{}

func (f *floorContext) reset() {
	f.events = &eventLog{}
	f.operations = make(map[string]*factory.Operation)
	f.lastResult = nil
	f.startAt(8, 0)
}

func (f *floorContext) startAt(hour, minute int) {
	clock := shared.NewSimulationClock(
		scenarioDay.Add(time.Duration(hour)*time.Hour+time.Duration(minute)*time.Minute),
		simulation.DefaultWorkDay,
	)
	f.engine = simulation.NewEngine(clock, simulation.WithEventSink(f.events))
}

// eventLog records engine notifications in emission order
type eventLog struct {
	mu     sync.Mutex
	events []factory.Event
}

func (l *eventLog) Publish(event factory.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) ofType(t factory.EventType) []factory.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []factory.Event
	for _, e := range l.events {
		if e.GetType() == t {
			out = append(out, e)
		}
	}
	return out
}

// getCellValue returns the cell under columnName for row ("" when the column is absent)
func getCellValue(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	if len(table.Rows) == 0 {
		return ""
	}
	for i, cell := range table.Rows[0].Cells {
		if cell.Value == columnName && i < len(row.Cells) {
			return strings.TrimSpace(row.Cells[i].Value)
		}
	}
	return ""
}

func getCellInt(table *godog.Table, row *messages.PickleTableRow, columnName string) (int, error) {
	raw := getCellValue(table, row, columnName)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("column %s: %q is not a number", columnName, raw)
	}
	return n, nil
}

// splitList splits "a, b, c" into trimmed non-empty items
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseRequirements parses "Steel:5, Aluminum:2"
func parseRequirements(raw string) (map[string]int, error) {
	reqs := make(map[string]int)
	for _, item := range splitList(raw) {
		name, qty, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("requirement %q must be name:quantity", item)
		}
		n, err := strconv.Atoi(strings.TrimSpace(qty))
		if err != nil {
			return nil, fmt.Errorf("requirement %q: %w", item, err)
		}
		reqs[strings.TrimSpace(name)] = n
	}
	return reqs, nil
}
