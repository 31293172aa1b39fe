package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"DnsBot/bot/chat"
)

type sessionRecord struct {
	Platform  string    `bson:"platform"`
	ChatID    string    `bson:"chat_id"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func sessionFilter(c chat.ChatKey, key string) bson.D {
	return bson.D{{Key: "platform", Value: c.Platform}, {Key: "chat_id", Value: c.ChatID}, {Key: "key", Value: key}}
}

// Get loads the session value stored for the chat under key into out.
func (m *MongoDB) Get(ctx context.Context, c chat.ChatKey, key string, out any) (bool, error) {
	var rec sessionRecord
	err := m.collection(sessionsCollection).FindOne(ctx, sessionFilter(c, key)).Decode(&rec)
	if err != nil {
		if err = m.findError(err); err != nil {
			return false, err
		}
		return false, nil
	}
	if err = chat.UnmarshalValue([]byte(rec.Value), out); err != nil {
		return false, err
	}
	return true, nil
}

// Set upserts the session value by {platform, chat_id, key}.
func (m *MongoDB) Set(ctx context.Context, c chat.ChatKey, key string, value any) error {
	data, err := chat.MarshalValue(value)
	if err != nil {
		return err
	}
	rec := sessionRecord{
		Platform:  c.Platform,
		ChatID:    c.ChatID,
		Key:       key,
		Value:     string(data),
		UpdatedAt: time.Now(),
	}
	update := bson.D{{Key: "$set", Value: rec}}
	opts := options.Update().SetUpsert(true)

	_, err = m.collection(sessionsCollection).UpdateOne(ctx, sessionFilter(c, key), update, opts)
	if err != nil {
		return fmt.Errorf("mongodb save session: %w", err)
	}
	return nil
}

func (m *MongoDB) Clear(ctx context.Context, c chat.ChatKey, key string) error {
	_, err := m.collection(sessionsCollection).DeleteOne(ctx, sessionFilter(c, key))
	if err != nil {
		return fmt.Errorf("mongodb delete session: %w", err)
	}
	return nil
}

func (m *MongoDB) Has(ctx context.Context, c chat.ChatKey, key string) (bool, error) {
	n, err := m.collection(sessionsCollection).CountDocuments(ctx, sessionFilter(c, key))
	if err != nil {
		return false, fmt.Errorf("mongodb count sessions: %w", err)
	}
	return n > 0, nil
}
