package model

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection 集合名称
func (c *Conversation) Collection() string {
	return "conversations"
}

// EnsureIndexes 创建索引
// 挂载时按 user_id 取 created_at 最新的一条
func (c *Conversation) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "user_id", Value: 1}, bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_user_created"),
		},
	}
	_, err := db.Collection(c.Collection()).Indexes().CreateMany(ctx, indexes)
	return err
}
