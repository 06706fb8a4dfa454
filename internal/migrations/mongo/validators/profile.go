package validators

import "go.mongodb.org/mongo-driver/bson"

var ProfileValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"display_name",
			"email",
			"role",
			"kyc_status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"display_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 80,
			},

			"email": bson.M{
				"bsonType":  "string",
				"minLength": 3,
			},

			"role": bson.M{
				"enum": []string{"guest", "host", "admin"},
			},

			"kyc_status": bson.M{
				"enum": []string{"unverified", "pending", "approved", "rejected"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
