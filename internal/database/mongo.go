package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"DnsBot/internal/config"
	"DnsBot/internal/lib/sl"
)

const (
	sessionsCollection = "sessions"
	eventsCollection   = "dialogue_events"
)

type MongoDB struct {
	client   *mongo.Client
	database string
	log      *slog.Logger
}

// NewMongoClient connects once and keeps the client for the life of the
// process; every session read and write goes through it.
func NewMongoClient(ctx context.Context, conf *config.Config, logger *slog.Logger) (*MongoDB, error) {
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	return newMongo(ctx, clientOptions, conf.Mongo.Database, logger)
}

func newMongo(ctx context.Context, clientOptions *options.ClientOptions, database string, logger *slog.Logger) (*MongoDB, error) {
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb ping error: %w", err)
	}
	m := &MongoDB{
		client:   client,
		database: database,
		log:      logger.With(sl.Module("mongodb")),
	}
	if err = m.ensureIndexes(ctx); err != nil {
		m.log.Warn("create indexes", sl.Err(err))
	}
	return m, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoDB) collection(name string) *mongo.Collection {
	return m.client.Database(m.database).Collection(name)
}

func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	_, err := m.collection(sessionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "platform", Value: 1}, {Key: "chat_id", Value: 1}, {Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (m *MongoDB) findError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return fmt.Errorf("mongodb find error: %w", err)
}
