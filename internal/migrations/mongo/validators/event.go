package validators

import "go.mongodb.org/mongo-driver/bson"

var EventValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"title",
			"event_type",
			"space_id",
			"organizer_type",
			"description",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"event_type": bson.M{
				"enum": []string{"event", "class", "gathering"},
			},

			"space_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"organizer_type": bson.M{
				"enum": []string{"student", "staff"},
			},

			"student_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"staff_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"schedule_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"poster_ref": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"description": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 1000,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
