package validators

import "go.mongodb.org/mongo-driver/bson"

var stoppageSchema = bson.M{
	"bsonType": "object",
	"required": []string{"name", "order", "goingTime", "returnTime"},
	"properties": bson.M{
		"name": bson.M{
			"bsonType":  "string",
			"minLength": 2,
			"maxLength": 60,
		},
		"order": bson.M{
			"bsonType": "int",
			"minimum":  1,
		},
		"goingTime": bson.M{
			"bsonType": "string",
			"pattern":  "^([01]?[0-9]|2[0-3]):[0-5][0-9]$",
		},
		"returnTime": bson.M{
			"bsonType": "string",
			"pattern":  "^([01]?[0-9]|2[0-3]):[0-5][0-9]$",
		},
	},
}

var BusValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"busName",
			"busNumber",
			"busType",
			"capacity",
			"fare",
			"stoppages",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"busName": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"busNumber": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 20,
			},

			"busType": bson.M{
				"bsonType": "string",
				"enum": []string{
					"AC Seater",
					"Non-AC Seater",
					"Sleeper AC",
					"Sleeper Non-AC",
					"Volvo",
					"Luxury",
				},
			},

			"capacity": bson.M{
				"bsonType": "int",
				"minimum":  20,
				"maximum":  60,
			},

			"fare": bson.M{
				"bsonType": "int",
				"minimum":  50,
			},

			"amenities": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"stoppages": bson.M{
				"bsonType": "array",
				"minItems": 3,
				"maxItems": 10,
				"items":    stoppageSchema,
			},

			"owner": bson.M{
				"bsonType": "string",
			},
		},
	},
}
