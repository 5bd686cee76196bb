package handlers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"webcars/internal/models"
)

// nameRangeSentinel is a high unicode code point appended to the upper bound
// so the range [PREFIX, PREFIX+sentinel] captures every name starting with
// PREFIX. Car names are upper-cased at write time to make this work; there
// is no true case-insensitive substring search with this encoding.
const nameRangeSentinel = "\uf8ff"

func searchNameBounds(term string) (string, string) {
	upper := strings.ToUpper(strings.TrimSpace(term))
	return upper, upper + nameRangeSentinel
}

func carSearchFilter(term string) bson.M {
	lower, upper := searchNameBounds(term)
	return bson.M{
		"name": bson.M{
			"$gte": lower,
			"$lte": upper,
		},
	}
}

// carListOptions picks the sort for the home listing. The browse view is
// newest first; a search rides the name range index, so it sorts by name to
// keep skip/limit pagination stable across pages.
func carListOptions(searching bool) *options.FindOptions {
	if searching {
		return options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	}
	return options.Find().SetSort(bson.D{{Key: "created", Value: -1}})
}

func decodeCars(ctx context.Context, cursor *mongo.Cursor) ([]models.Car, error) {
	cars := make([]models.Car, 0)

	for cursor.Next(ctx) {
		var car models.Car
		if err := cursor.Decode(&car); err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return cars, nil
}

// whatsAppLink builds the prefilled deep link buyers use to contact the
// seller. Plain URL template, nothing more.
func whatsAppLink(phone, carName string) string {
	message := fmt.Sprintf("Hello! I saw the %s on WebCars and I'm interested!", carName)
	return "https://api.whatsapp.com/send?phone=" + url.QueryEscape(phone) + "&text=" + url.QueryEscape(message)
}
