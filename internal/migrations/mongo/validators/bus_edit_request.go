package validators

import "go.mongodb.org/mongo-driver/bson"

var BusEditRequestValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"busId",
			"requestedBy",
			"type",
			"status",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"busId": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"stoppageId": bson.M{
				"bsonType": "string",
			},

			"requestedBy": bson.M{
				"bsonType": "string",
			},

			"type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"ADD",
					"UPDATE",
					"DELETE",
				},
			},

			"data": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"name": bson.M{
						"bsonType": "string",
					},
					"order": bson.M{
						"bsonType": "int",
					},
					"goingTime": bson.M{
						"bsonType": "string",
					},
					"returnTime": bson.M{
						"bsonType": "string",
					},
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"PENDING",
					"APPROVED",
					"REJECTED",
				},
			},

			"adminRemark": bson.M{
				"bsonType": "string",
			},
		},
	},
}
