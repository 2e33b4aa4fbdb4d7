package database

import (
	"reflect"
	"testing"
)

func TestBsonKeyOf(t *testing.T) {
	type sample struct {
		GymID       string `bson:"gymId" index:"unique"`
		AccessToken string `bson:"accessToken,omitempty"`
		Ignored     string `bson:"-"`
		NoTag       string
	}

	modelType := reflect.TypeOf(sample{})

	cases := []struct {
		field string
		want  string
	}{
		{"GymID", "gymId"},
		{"AccessToken", "accessToken"},
		{"Ignored", ""},
		{"NoTag", ""},
	}
	for _, tc := range cases {
		field, ok := modelType.FieldByName(tc.field)
		if !ok {
			t.Fatalf("Không tìm thấy field %s", tc.field)
		}
		if got := bsonKeyOf(field); got != tc.want {
			t.Errorf("bsonKeyOf(%s) = %q, muốn %q", tc.field, got, tc.want)
		}
	}
}
