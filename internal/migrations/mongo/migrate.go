package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"unispace/internal/migrations/mongo/validators"
)

var (
	SpacesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "building", Value: 1}, {Key: "room_number", Value: 1}}},
		{Keys: bson.D{{Key: "is_active", Value: 1}}},
	}

	// The unique (space_id, date, start_code) index is the storage-level
	// backstop behind the sibling overlap scan: two ranges starting on
	// the same code in the same booking group can never both land.
	SchedulesIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "space_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "start_code", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "space_id", Value: 1}, {Key: "date", Value: 1}}},
	}

	// schedule_id is unique and sparse: at most one reservation owns a
	// schedule, and reservations without one stay out of the index.
	ReservationsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "schedule_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{Keys: bson.D{{Key: "student_id", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "staff_id", Value: 1}, {Key: "date", Value: -1}}},
	}

	EventsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "schedule_id", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	// Expired locks are reaped by Mongo itself; a crashed request can
	// stall a booking group for at most the lock TTL.
	SlotLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running Unispace Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Spaces": {
			Indexes:   SpacesIndexes,
			Validator: validators.SpaceValidator,
		},
		"Schedules": {
			Indexes:   SchedulesIndexes,
			Validator: validators.ScheduleValidator,
		},
		"Reservations": {
			Indexes:   ReservationsIndexes,
			Validator: validators.ReservationValidator,
		},
		"Events": {
			Indexes:   EventsIndexes,
			Validator: validators.EventValidator,
		},
		"Slot_locks": {
			Indexes: SlotLocksIndexes,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts = opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else if validator != nil {
		fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
