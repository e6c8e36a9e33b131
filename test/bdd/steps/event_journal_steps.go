package steps

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/cucumber/godog"

	"github.com/andrescamacho/factorysim/internal/adapters/events"
	"github.com/andrescamacho/factorysim/internal/adapters/persistence"
	"github.com/andrescamacho/factorysim/internal/domain/factory"
	"github.com/andrescamacho/factorysim/test/helpers"
)

type eventJournalContext struct {
	floor   *floorContext
	journal *persistence.GormEventJournalRepository

	bus       *gochannel.GoChannel
	cancelBus context.CancelFunc
	mu        sync.Mutex
	delivered []factory.EventType
}

func (jc *eventJournalContext) reset() {
	jc.journal = nil
	jc.bus = nil
	jc.cancelBus = nil
	jc.delivered = nil
}

func (jc *eventJournalContext) close() {
	if jc.cancelBus != nil {
		jc.cancelBus()
	}
	if jc.bus != nil {
		_ = jc.bus.Close()
	}
}

// Given steps

func (jc *eventJournalContext) eventsAreJournaled() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	jc.journal = persistence.NewGormEventJournalRepository(helpers.SharedTestDB, nil)
	jc.floor.engine.Subscribe(jc.journal)
	return nil
}

func (jc *eventJournalContext) eventsArePublishedToTheEventBus() error {
	jc.bus = events.NewOrderedPubSub(nil)

	ctx, cancel := context.WithCancel(context.Background())
	jc.cancelBus = cancel
	if _, err := events.Listen(ctx, jc.bus, func(ctx context.Context, event factory.Event) error {
		jc.mu.Lock()
		defer jc.mu.Unlock()
		jc.delivered = append(jc.delivered, event.GetType())
		return nil
	}); err != nil {
		return err
	}

	jc.floor.engine.Subscribe(events.NewWatermillEventPublisher(jc.bus, nil))
	return nil
}

// Then steps

func (jc *eventJournalContext) theJournalShouldContainEntries(expected int, eventType string) error {
	if jc.journal == nil {
		return fmt.Errorf("journal not enabled")
	}
	counts, err := jc.journal.CountByType(context.Background())
	if err != nil {
		return err
	}
	if got := counts[factory.EventType(eventType)]; got != int64(expected) {
		return fmt.Errorf("expected %d %s entries, got %d", expected, eventType, got)
	}
	return nil
}

func (jc *eventJournalContext) theJournalEntriesForTheLastExecutionShouldBe(expected string) error {
	if jc.journal == nil {
		return fmt.Errorf("journal not enabled")
	}
	if jc.floor.lastResult == nil || jc.floor.lastResult.ExecutionID == "" {
		return fmt.Errorf("no successful execution to look up")
	}
	entries, err := jc.journal.FindRecent(context.Background(), persistence.JournalQuery{
		ExecutionID: jc.floor.lastResult.ExecutionID,
	})
	if err != nil {
		return err
	}
	types := make([]string, len(entries))
	for i, e := range entries {
		types[i] = string(e.Type)
	}
	if got := strings.Join(types, ", "); got != expected {
		return fmt.Errorf("expected entries %q, got %q", expected, got)
	}
	return nil
}

func (jc *eventJournalContext) theJournaledCostOfTheLastExecutionShouldBe(expected string) error {
	entries, err := jc.journal.FindRecent(context.Background(), persistence.JournalQuery{
		ExecutionID: jc.floor.lastResult.ExecutionID,
		Type:        factory.OperationStartedEvent,
	})
	if err != nil {
		return err
	}
	if len(entries) != 1 || entries[0].Cost == nil {
		return fmt.Errorf("expected one started entry with a cost, got %d entries", len(entries))
	}
	if got := entries[0].Cost.String(); got != expected {
		return fmt.Errorf("expected journaled cost %s, got %s", expected, got)
	}
	return nil
}

func (jc *eventJournalContext) theEventBusShouldHaveDelivered(expected string) error {
	jc.mu.Lock()
	defer jc.mu.Unlock()
	got := make([]string, len(jc.delivered))
	for i, t := range jc.delivered {
		got[i] = string(t)
	}
	if strings.Join(got, ", ") != expected {
		return fmt.Errorf("expected delivery order %q, got %q", expected, strings.Join(got, ", "))
	}
	return nil
}

// InitializeEventJournalScenario registers the journal and event bus steps
func InitializeEventJournalScenario(ctx *godog.ScenarioContext) {
	jc := &eventJournalContext{floor: globalFloor}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		jc.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		jc.close()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^events are journaled$`, jc.eventsAreJournaled)
	ctx.Step(`^events are published to the event bus$`, jc.eventsArePublishedToTheEventBus)

	// Then steps
	ctx.Step(`^the journal should contain (\d+) "([^"]*)" entr(?:y|ies)$`, jc.theJournalShouldContainEntries)
	ctx.Step(`^the journal entries for the last execution should be "([^"]*)"$`, jc.theJournalEntriesForTheLastExecutionShouldBe)
	ctx.Step(`^the journaled cost of the last execution should be "([^"]*)"$`, jc.theJournaledCostOfTheLastExecutionShouldBe)
	ctx.Step(`^the event bus should have delivered "([^"]*)"$`, jc.theEventBusShouldHaveDelivered)
}
