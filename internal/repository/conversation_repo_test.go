package repository

import (
	"context"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aurabox/internal/config"
	"aurabox/internal/model"
	"aurabox/internal/pkg/cache"
	"aurabox/internal/pkg/id"
)

// 集成测试：需要本地 MongoDB / Redis
//
//	MONGO_URI=mongodb://localhost:27017 REDIS_ADDR=localhost:6379 go test ./internal/repository -v
func testMongoDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping MongoDB integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	db := client.Database("aurabox_test")
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestConversationRepo_Mongo(t *testing.T) {
	db := testMongoDB(t)

	Convey("ConversationRepo (MongoDB)", t, func() {
		ctx := context.Background()
		repo := NewConversationRepo(db)
		userID := id.New()

		Convey("无对话时返回 nil", func() {
			conv, err := repo.LoadLatest(ctx, userID)
			So(err, ShouldBeNil)
			So(conv, ShouldBeNil)
		})

		Convey("插入、按修订号更新、冲突检测", func() {
			ts := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
			conv := &model.Conversation{
				UserID:   userID,
				Messages: []model.Message{{ID: id.NewOrdered(), Text: "hi", Sender: model.SenderUser, Timestamp: ts}},
			}
			So(repo.Save(ctx, conv), ShouldBeNil)
			So(conv.Revision, ShouldEqual, 1)

			loaded, err := repo.LoadLatest(ctx, userID)
			So(err, ShouldBeNil)
			So(loaded.ID, ShouldEqual, conv.ID)
			So(loaded.Messages[0].Timestamp.Equal(ts), ShouldBeTrue)

			stale := *loaded
			conv.Messages = append(conv.Messages, model.Message{ID: id.NewOrdered(), Text: "hello", Sender: model.SenderAssistant, Timestamp: ts})
			So(repo.Save(ctx, conv), ShouldBeNil)
			So(conv.Revision, ShouldEqual, 2)
			So(repo.Save(ctx, &stale), ShouldEqual, ErrRevisionConflict)

			count, err := db.Collection("conversations").CountDocuments(ctx, bson.M{"user_id": userID})
			So(err, ShouldBeNil)
			So(count, ShouldEqual, 1)
		})
	})
}

// loadHookRepo 读完底层数据、返回之前执行 hook，模拟读取期间的并发写入
type loadHookRepo struct {
	*MemoryConversationRepo
	hook func()
}

func (r *loadHookRepo) LoadLatest(ctx context.Context, userID string) (*model.Conversation, error) {
	conv, err := r.MemoryConversationRepo.LoadLatest(ctx, userID)
	if r.hook != nil {
		hook := r.hook
		r.hook = nil
		hook()
	}
	return conv, err
}

func testRedisCache(t *testing.T) *cache.RedisCache {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping Redis integration test")
	}

	redisCache, err := cache.NewRedisCache(&config.RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}
	t.Cleanup(func() { _ = redisCache.Close() })
	return redisCache
}

func TestCachedConversationRepo_StaleFill(t *testing.T) {
	redisCache := testRedisCache(t)

	Convey("读取期间发生写入时不回填旧修订号", t, func() {
		ctx := context.Background()
		backing := &loadHookRepo{MemoryConversationRepo: NewMemoryConversationRepo()}
		repo := NewCachedConversationRepo(backing, redisCache, time.Minute)
		userID := id.New()

		conv := &model.Conversation{UserID: userID, Messages: []model.Message{{ID: "m1", Text: "hi", Sender: model.SenderUser}}}
		So(repo.Save(ctx, conv), ShouldBeNil)
		So(conv.Revision, ShouldEqual, 1)

		backing.hook = func() {
			conv.Messages = append(conv.Messages, model.Message{ID: "m2", Text: "hello", Sender: model.SenderAssistant})
			So(repo.Save(ctx, conv), ShouldBeNil)
		}
		stale, err := repo.LoadLatest(ctx, userID)
		So(err, ShouldBeNil)
		So(stale.Revision, ShouldEqual, 1)

		var cached model.Conversation
		err = redisCache.Get(ctx, cache.LatestConversationKey(userID), &cached)
		So(cache.IsMiss(err), ShouldBeTrue)

		latest, err := repo.LoadLatest(ctx, userID)
		So(err, ShouldBeNil)
		So(latest.Revision, ShouldEqual, 2)
		So(len(latest.Messages), ShouldEqual, 2)
	})
}

func TestCachedConversationRepo_Redis(t *testing.T) {
	redisCache := testRedisCache(t)

	Convey("CachedConversationRepo", t, func() {
		ctx := context.Background()
		backing := NewMemoryConversationRepo()
		repo := NewCachedConversationRepo(backing, redisCache, time.Minute)
		userID := id.New()

		conv := &model.Conversation{UserID: userID, Messages: []model.Message{{ID: "m1", Text: "hi", Sender: model.SenderUser}}}
		So(repo.Save(ctx, conv), ShouldBeNil)

		first, err := repo.LoadLatest(ctx, userID)
		So(err, ShouldBeNil)
		So(first.ID, ShouldEqual, conv.ID)

		var cached model.Conversation
		So(redisCache.Get(ctx, cache.LatestConversationKey(userID), &cached), ShouldBeNil)
		So(cached.ID, ShouldEqual, conv.ID)

		Convey("写入后缓存失效", func() {
			conv.Messages = append(conv.Messages, model.Message{ID: "m2", Text: "hello", Sender: model.SenderAssistant})
			So(repo.Save(ctx, conv), ShouldBeNil)

			err := redisCache.Get(ctx, cache.LatestConversationKey(userID), &cached)
			So(cache.IsMiss(err), ShouldBeTrue)

			latest, err := repo.LoadLatest(ctx, userID)
			So(err, ShouldBeNil)
			So(len(latest.Messages), ShouldEqual, 2)
		})
	})
}
