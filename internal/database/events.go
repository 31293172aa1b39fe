package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"DnsBot/bot/chat"
	"DnsBot/internal/lib/sl"
)

// DialogueEvent appends the event to the audit collection. Failures are
// logged, the dialogue keeps going.
func (m *MongoDB) DialogueEvent(ev chat.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := m.collection(eventsCollection).InsertOne(ctx, ev); err != nil {
		m.log.Error("save dialogue event", sl.Err(err))
	}
}

// RecentEvents returns the newest events of a chat, newest first.
func (m *MongoDB) RecentEvents(ctx context.Context, c chat.ChatKey, limit int64) ([]chat.Event, error) {
	filter := bson.D{{Key: "platform", Value: c.Platform}, {Key: "chat_id", Value: c.ChatID}}
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}}).SetLimit(limit)

	cursor, err := m.collection(eventsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, m.findError(err)
	}
	defer cursor.Close(ctx)

	var events []chat.Event
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
