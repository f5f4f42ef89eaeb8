package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aurabox/internal/model"
)

var (
	// ErrRevisionConflict 远端文档已被其他会话更新
	ErrRevisionConflict = errors.New("conversation revision conflict")
)

// ConversationStore 对话持久化端口
//
// LoadLatest 返回该用户 created_at 最新的对话；不存在时返回 (nil, nil)。
// Save 对新对话（ID 为空）执行插入，否则按 (ID, Revision) 做比较并交换；
// 成功后回写 conv 的 ID、Revision 与时间戳。
type ConversationStore interface {
	LoadLatest(ctx context.Context, userID string) (*model.Conversation, error)
	Save(ctx context.Context, conv *model.Conversation) error
}

// ConversationRepo 对话仓库（MongoDB）
type ConversationRepo struct {
	collection *mongo.Collection
}

// NewConversationRepo 创建对话仓库
func NewConversationRepo(db *mongo.Database) *ConversationRepo {
	return &ConversationRepo{
		collection: db.Collection((&model.Conversation{}).Collection()),
	}
}

// LoadLatest 查询用户最新的对话
func (r *ConversationRepo) LoadLatest(ctx context.Context, userID string) (*model.Conversation, error) {
	opts := options.FindOne().SetSort(bson.D{bson.E{Key: "created_at", Value: -1}})

	var conv model.Conversation
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &conv, nil
}

// Save 保存对话
func (r *ConversationRepo) Save(ctx context.Context, conv *model.Conversation) error {
	now := time.Now().UTC()

	if conv.IsNew() {
		return r.create(ctx, conv, now)
	}

	filter := bson.M{"_id": conv.ID, "revision": conv.Revision}
	update := bson.M{
		"$set": bson.M{
			"messages":   conv.Messages,
			"updated_at": now,
		},
		"$inc": bson.M{"revision": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrRevisionConflict
	}

	conv.Revision++
	conv.UpdatedAt = now
	return nil
}

// create 创建对话
func (r *ConversationRepo) create(ctx context.Context, conv *model.Conversation, now time.Time) error {
	conv.CreatedAt = now
	conv.UpdatedAt = now
	conv.Revision = 1

	result, err := r.collection.InsertOne(ctx, conv)
	if err != nil {
		conv.Revision = 0
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		conv.ID = oid
	}
	return nil
}
