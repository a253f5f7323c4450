package validators

import "go.mongodb.org/mongo-driver/bson"

var ScheduleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"space_id",
			"date",
			"start_code",
			"end_code",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"space_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"date": bson.M{
				"bsonType":  "string",
				"minLength": 10,
				"maxLength": 10,
			},

			"start_code": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  12,
			},

			"end_code": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  12,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
