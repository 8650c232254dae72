// Package sse implements Server-Sent Events for pushing library changes and
// reward celebrations to the reading client.
package sse

import (
	"time"

	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
)

// Sanctuary uses SSE strictly server-to-client: the reader UI holds one
// stream open and turns reward.star_reached events into the celebration
// overlay. Everything else follows a request/response pattern.

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventBookCreated represents a book import event.
	EventBookCreated EventType = "book.created"
	// EventBookUpdated represents a book metadata or reading-state update.
	EventBookUpdated EventType = "book.updated"
	// EventLibraryWiped represents a bulk wipe of all books.
	EventLibraryWiped EventType = "library.wiped"

	// EventShelfCreated represents a shelf creation event.
	EventShelfCreated EventType = "shelf.created"
	// EventShelfUpdated represents a shelf update event.
	EventShelfUpdated EventType = "shelf.updated"
	// EventShelfDeleted represents a shelf deletion (books re-parented).
	EventShelfDeleted EventType = "shelf.deleted"

	// EventStarReached fires when cumulative reading time crosses a star
	// tier. The client turns this into the celebration sequence.
	EventStarReached EventType = "reward.star_reached"

	// EventHabitUpdated fires when the streak/shield aggregate changes.
	EventHabitUpdated EventType = "habit.updated"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// BookEventData is the data payload for book events.
type BookEventData struct {
	Book *domain.Book `json:"book"`
}

// LibraryWipedEventData is the data payload for bulk wipe events.
type LibraryWipedEventData struct {
	WipedAt      time.Time `json:"wiped_at"`
	BooksRemoved int       `json:"books_removed"`
}

// ShelfEventData is the data payload for shelf create/update events.
type ShelfEventData struct {
	Shelf *domain.Shelf `json:"shelf"`
}

// ShelfDeletedEventData is the data payload for shelf deletion events.
type ShelfDeletedEventData struct {
	ShelfID         string `json:"shelf_id"`
	BooksReparented int    `json:"books_reparented"`
}

// StarReachedEventData is the data payload for star tier crossings.
type StarReachedEventData struct {
	BookID           string `json:"book_id"`
	Stars            uint32 `json:"stars"`
	TimeSpentSeconds uint64 `json:"time_spent_seconds"`
}

// HabitEventData is the data payload for habit updates.
type HabitEventData struct {
	Habit *domain.Habit `json:"habit"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewBookCreatedEvent creates a book.created event.
func NewBookCreatedEvent(book *domain.Book) Event {
	return Event{
		Type:      EventBookCreated,
		Timestamp: time.Now(),
		Data:      BookEventData{Book: book},
	}
}

// NewBookUpdatedEvent creates a book.updated event.
func NewBookUpdatedEvent(book *domain.Book) Event {
	return Event{
		Type:      EventBookUpdated,
		Timestamp: time.Now(),
		Data:      BookEventData{Book: book},
	}
}

// NewLibraryWipedEvent creates a library.wiped event.
func NewLibraryWipedEvent(booksRemoved int) Event {
	return Event{
		Type:      EventLibraryWiped,
		Timestamp: time.Now(),
		Data:      LibraryWipedEventData{WipedAt: time.Now(), BooksRemoved: booksRemoved},
	}
}

// NewShelfCreatedEvent creates a shelf.created event.
func NewShelfCreatedEvent(shelf *domain.Shelf) Event {
	return Event{
		Type:      EventShelfCreated,
		Timestamp: time.Now(),
		Data:      ShelfEventData{Shelf: shelf},
	}
}

// NewShelfUpdatedEvent creates a shelf.updated event.
func NewShelfUpdatedEvent(shelf *domain.Shelf) Event {
	return Event{
		Type:      EventShelfUpdated,
		Timestamp: time.Now(),
		Data:      ShelfEventData{Shelf: shelf},
	}
}

// NewShelfDeletedEvent creates a shelf.deleted event.
func NewShelfDeletedEvent(shelfID string, booksReparented int) Event {
	return Event{
		Type:      EventShelfDeleted,
		Timestamp: time.Now(),
		Data:      ShelfDeletedEventData{ShelfID: shelfID, BooksReparented: booksReparented},
	}
}

// NewStarReachedEvent creates a reward.star_reached event.
func NewStarReachedEvent(bookID string, stars uint32, timeSpentSeconds uint64) Event {
	return Event{
		Type:      EventStarReached,
		Timestamp: time.Now(),
		Data: StarReachedEventData{
			BookID:           bookID,
			Stars:            stars,
			TimeSpentSeconds: timeSpentSeconds,
		},
	}
}

// NewHabitUpdatedEvent creates a habit.updated event.
func NewHabitUpdatedEvent(habit *domain.Habit) Event {
	return Event{
		Type:      EventHabitUpdated,
		Timestamp: time.Now(),
		Data:      HabitEventData{Habit: habit},
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Timestamp: time.Now(),
		Data:      HeartbeatEventData{ServerTime: time.Now()},
	}
}
