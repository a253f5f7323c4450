package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"reservation_type",
			"reservee_type",
			"space_id",
			"status",
			"description",
			"phone_number",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"reservation_type": bson.M{
				"enum": []string{"event", "class", "gathering"},
			},

			"reservee_type": bson.M{
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

			"space_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"schedule_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"date": bson.M{
				"bsonType":  "string",
				"minLength": 10,
				"maxLength": 10,
			},

			"status": bson.M{
				"enum": []string{"under_review", "approved", "rejected"},
			},

			"manager_comment": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"description": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 1000,
			},

			"phone_number": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"event_name": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"organization_name": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"expected_attendees": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  10000,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
