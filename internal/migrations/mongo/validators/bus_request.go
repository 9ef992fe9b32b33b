package validators

import "go.mongodb.org/mongo-driver/bson"

// BusRequestValidator is deliberately looser than BusValidator: busType,
// capacity and fare are optional and unchecked because moderation
// substitutes defaults for malformed values on approval.
var BusRequestValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"userId",
			"busName",
			"busNumber",
			"stoppages",
			"status",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"userId": bson.M{
				"bsonType": "string",
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

			"stoppages": bson.M{
				"bsonType": "array",
				"minItems": 3,
				"maxItems": 10,
				"items":    stoppageSchema,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"approved",
					"rejected",
				},
			},

			"rejectionReason": bson.M{
				"bsonType": "string",
			},
		},
	},
}
