package internal

import (
	"context"
	"fmt"
	"log"
	"paywindow/config"
	"paywindow/entity"
	"paywindow/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionLog       = "payment_log"
	collectionWindows   = "payment_windows"
	collectionCallbacks = "payment_callbacks"
)

type MongoDB struct {
	clientOptions *options.ClientOptions
	database      string
}

func NewMongoClient(conf *config.Config) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
	}
	return client, nil
}

func (m *MongoDB) connect(ctx context.Context) (*mongo.Client, error) {
	connection, err := mongo.Connect(ctx, m.clientOptions)
	if err != nil {
		return nil, err
	}
	return connection, nil
}

func (m *MongoDB) disconnect(ctx context.Context, connection *mongo.Client) {
	err := connection.Disconnect(ctx)
	if err != nil {
		log.Println("mongodb disconnect error", err)
	}
}

func (m *MongoDB) WriteLogMessage(ctx context.Context, data services.Data) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(collectionLog)
	_, err = collection.InsertOne(ctx, data)
	return err
}

// SaveWindow stores the signed window, replacing an earlier one with the same reference.
func (m *MongoDB) SaveWindow(ctx context.Context, record *entity.WindowRecord) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	filter := bson.D{{"reference", record.Reference}}
	set := bson.M{"$set": record}
	collection := connection.Database(m.database).Collection(collectionWindows)
	_, err = collection.UpdateOne(ctx, filter, set, options.Update().SetUpsert(true))
	return err
}

func (m *MongoDB) GetWindow(ctx context.Context, reference string) (*entity.WindowRecord, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(ctx, connection)

	filter := bson.D{{"reference", reference}}
	collection := connection.Database(m.database).Collection(collectionWindows)
	var record entity.WindowRecord
	if err = collection.FindOne(ctx, filter).Decode(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (m *MongoDB) SaveCallback(ctx context.Context, record *entity.CallbackRecord) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(collectionCallbacks)
	_, err = collection.InsertOne(ctx, record)
	return err
}
