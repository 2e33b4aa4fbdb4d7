package database

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gym_connect/internal/logger"
)

// ExtraIndex khai báo một index không biểu diễn được bằng tag
// (partial filter, TTL). Model expose qua interface ExtraIndexer.
type ExtraIndex struct {
	Keys    bson.D
	Options *options.IndexOptions
}

// ExtraIndexer là interface cho model cần index ngoài phạm vi tag
type ExtraIndexer interface {
	ExtraIndexes() []ExtraIndex
}

// CreateIndexes đọc struct tag `index` trên model và đảm bảo các index tồn tại
// trên collection. Các dạng tag hỗ trợ:
//
//	index:"single:1"                        — index đơn (1 = asc, -1 = desc)
//	index:"unique"                          — unique index đơn
//	index:"unique;sparse"                   — unique sparse (bỏ qua document thiếu field)
//	index:"compound:idx_name"               — tham gia compound index idx_name
//
// Compound index có tên chứa "_unique" sẽ được tạo unique; chứa "_sparse" sẽ sparse.
// Unique compound index là cơ chế dedup duy nhất cho chat_messages
// (gymId + externalMessageId). Model implement ExtraIndexer được tạo thêm
// các index khai báo tay (vd partial unique của chat_conversations).
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	log := logger.GetAppLogger()

	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	compoundGroups := map[string]bson.D{}

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}

		bsonField := bsonKeyOf(field)
		if bsonField == "" {
			continue
		}

		sparse := strings.Contains(tag, "sparse")

		for _, part := range strings.Split(tag, ";") {
			part = strings.TrimSpace(part)
			switch {
			case part == "unique":
				opts := options.Index().SetName(bsonField + "_unique").SetUnique(true)
				if sparse {
					opts = opts.SetSparse(true)
				}
				if err := ensureIndex(ctx, collection, bson.D{{Key: bsonField, Value: 1}}, opts); err != nil {
					return err
				}
			case strings.HasPrefix(part, "single"):
				order := 1
				if strings.HasSuffix(part, ":-1") {
					order = -1
				}
				opts := options.Index().SetName(bsonField + "_single")
				if err := ensureIndex(ctx, collection, bson.D{{Key: bsonField, Value: order}}, opts); err != nil {
					return err
				}
			case strings.HasPrefix(part, "compound:"):
				groupName := strings.TrimPrefix(part, "compound:")
				compoundGroups[groupName] = append(compoundGroups[groupName], bson.E{Key: bsonField, Value: 1})
			}
		}
	}

	for groupName, keys := range compoundGroups {
		opts := options.Index().SetName(groupName)
		if strings.Contains(groupName, "_unique") {
			opts = opts.SetUnique(true)
		}
		if strings.Contains(groupName, "_sparse") {
			opts = opts.SetSparse(true)
		}
		if err := ensureIndex(ctx, collection, keys, opts); err != nil {
			return err
		}
	}

	if extra, ok := model.(ExtraIndexer); ok {
		for _, idx := range extra.ExtraIndexes() {
			if err := ensureIndex(ctx, collection, idx.Keys, idx.Options); err != nil {
				return err
			}
		}
	}

	log.WithField("collection", collection.Name()).Debug("Ensured indexes")
	return nil
}

// ensureIndex tạo index, bỏ qua nếu index trùng tên và cấu hình đã tồn tại
func ensureIndex(ctx context.Context, collection *mongo.Collection, keys bson.D, opts *options.IndexOptions) error {
	if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts}); err != nil {
		// IndexOptionsConflict: index cũ khác cấu hình — xóa và tạo lại
		if cmdErr, ok := err.(mongo.CommandError); ok && (cmdErr.Code == 85 || cmdErr.Code == 86) {
			if opts.Name != nil {
				if _, dropErr := collection.Indexes().DropOne(ctx, *opts.Name); dropErr != nil {
					return fmt.Errorf("không thể xóa index cũ %s: %w", *opts.Name, dropErr)
				}
				if _, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts}); err == nil {
					return nil
				}
			}
		}
		return fmt.Errorf("không thể tạo index trên %s: %w", collection.Name(), err)
	}
	return nil
}

// bsonKeyOf lấy bson key của field, bỏ qua field không serialize
func bsonKeyOf(field reflect.StructField) string {
	bsonTag := field.Tag.Get("bson")
	if bsonTag == "" || bsonTag == "-" {
		return ""
	}
	return strings.TrimSpace(strings.Split(bsonTag, ",")[0])
}
